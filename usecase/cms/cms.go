package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/spicecms/domain"
	"github.com/fastygo/spicecms/repository"
)

// UseCase is the persistence backend: four collections over a document store,
// each replaced wholesale except enquiries, which are appended server side.
type UseCase struct {
	docs   repository.DocumentStore
	logger *zap.Logger
	now    func() time.Time

	// enquiries are read-modify-write; serialize them within this process.
	enquiryMu sync.Mutex
}

func New(docs repository.DocumentStore, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		docs:   docs,
		logger: logger,
		now:    time.Now,
	}
}

// State returns the full CMSState; collections never written read as empty.
func (uc *UseCase) State(ctx context.Context) (domain.CMSState, error) {
	state := domain.EmptyState()
	if err := uc.read(ctx, domain.KeyProducts, &state.Products); err != nil {
		return domain.CMSState{}, err
	}
	if err := uc.read(ctx, domain.KeyBlogs, &state.Blogs); err != nil {
		return domain.CMSState{}, err
	}
	if err := uc.read(ctx, domain.KeyEnquiries, &state.Enquiries); err != nil {
		return domain.CMSState{}, err
	}
	if err := uc.read(ctx, domain.KeySiteConfig, &state.SiteConfig); err != nil {
		return domain.CMSState{}, err
	}
	state.Normalize()
	return state, nil
}

func (uc *UseCase) ReplaceProducts(ctx context.Context, products []domain.Product) error {
	if products == nil {
		products = []domain.Product{}
	}
	return uc.write(ctx, domain.KeyProducts, products)
}

func (uc *UseCase) ReplaceBlogs(ctx context.Context, blogs []domain.BlogPost) error {
	if blogs == nil {
		blogs = []domain.BlogPost{}
	}
	return uc.write(ctx, domain.KeyBlogs, blogs)
}

func (uc *UseCase) ReplaceConfig(ctx context.Context, cfg domain.SiteConfig) error {
	return uc.write(ctx, domain.KeySiteConfig, cfg)
}

// CreateEnquiry completes the draft with server identity and puts it first.
func (uc *UseCase) CreateEnquiry(ctx context.Context, draft domain.EnquiryDraft) (domain.Enquiry, error) {
	if err := draft.Validate(); err != nil {
		return domain.Enquiry{}, err
	}

	uc.enquiryMu.Lock()
	defer uc.enquiryMu.Unlock()

	var enquiries []domain.Enquiry
	if err := uc.read(ctx, domain.KeyEnquiries, &enquiries); err != nil {
		return domain.Enquiry{}, err
	}

	enquiry := draft.Accept(uc.now())
	enquiries = append([]domain.Enquiry{enquiry}, enquiries...)

	if err := uc.write(ctx, domain.KeyEnquiries, enquiries); err != nil {
		return domain.Enquiry{}, err
	}
	uc.logger.Info("enquiry received",
		zap.String("enquiry_id", enquiry.ID),
		zap.String("type", string(enquiry.Type)))
	return enquiry, nil
}

// UpdateEnquiryStatus sets the status of one enquiry. An unknown id is a no-op.
func (uc *UseCase) UpdateEnquiryStatus(ctx context.Context, id string, status domain.EnquiryStatus) error {
	if !status.Valid() {
		return domain.Invalid("unknown enquiry status %q", status)
	}

	uc.enquiryMu.Lock()
	defer uc.enquiryMu.Unlock()

	var enquiries []domain.Enquiry
	if err := uc.read(ctx, domain.KeyEnquiries, &enquiries); err != nil {
		return err
	}

	found := false
	for i := range enquiries {
		if enquiries[i].ID == id {
			enquiries[i].Status = status
			found = true
		}
	}
	if !found {
		uc.logger.Debug("status update for unknown enquiry", zap.String("enquiry_id", id))
		return nil
	}
	return uc.write(ctx, domain.KeyEnquiries, enquiries)
}

// Ping reports whether the underlying store is reachable.
func (uc *UseCase) Ping(ctx context.Context) error {
	return uc.docs.Ping(ctx)
}

func (uc *UseCase) read(ctx context.Context, key string, dest any) error {
	raw, err := uc.docs.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return nil
		}
		return domain.WrapError(domain.ErrCodeInternal, fmt.Sprintf("read %s", key), err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return domain.WrapError(domain.ErrCodeInternal, fmt.Sprintf("decode %s", key), err)
	}
	return nil
}

func (uc *UseCase) write(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, fmt.Sprintf("encode %s", key), err)
	}
	if err := uc.docs.Put(ctx, key, raw); err != nil {
		return domain.WrapError(domain.ErrCodeInternal, fmt.Sprintf("write %s", key), err)
	}
	return nil
}
