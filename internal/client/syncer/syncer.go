// Package syncer keeps a client's view of the CMS state. Every mutation is
// applied to memory first, then pushed to the backend by a single FIFO
// worker; when the backend is unreachable the local change stands and the
// full state is kept in a local fallback store for the next start.
package syncer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/spicecms/domain"
)

var (
	// ErrNotStarted is the panic value for mutations issued before Start.
	ErrNotStarted = errors.New("syncer: synchronizer used before Start")
	// ErrClosed is reported as the Cause of writes queued after Close.
	ErrClosed = errors.New("syncer: synchronizer closed")
)

// Backend is the remote persistence contract. Any failure counts as
// "unavailable"; no finer distinction is made.
type Backend interface {
	FetchState(ctx context.Context) (domain.CMSState, error)
	PutProducts(ctx context.Context, products []domain.Product) error
	PutBlogs(ctx context.Context, blogs []domain.BlogPost) error
	PutConfig(ctx context.Context, cfg domain.SiteConfig) error
	CreateEnquiry(ctx context.Context, draft domain.EnquiryDraft) (domain.Enquiry, error)
	UpdateEnquiryStatus(ctx context.Context, id string, status domain.EnquiryStatus) error
}

// LocalStore holds the session-local shadow copy. Load returns
// domain.ErrNoLocalState when nothing was ever saved.
type LocalStore interface {
	Load() (domain.CMSState, error)
	Save(state domain.CMSState) error
}

// Config tunes the synchronizer.
type Config struct {
	// CallTimeout bounds each backend call.
	CallTimeout time.Duration
	// Seed replaces domain.DefaultState as the initial state.
	Seed *domain.CMSState
	Now  func() time.Time
}

type job func(ctx context.Context)

// Synchronizer owns the canonical in-memory CMSState for one session.
type Synchronizer struct {
	backend Backend
	local   LocalStore
	logger  *zap.Logger
	cfg     Config

	mu      sync.RWMutex
	state   domain.CMSState
	version uint64
	// placeholder enquiry id -> server id, for status updates queued
	// before the create was confirmed.
	aliases map[string]string
	// placeholder ids whose create is still in flight.
	inflight map[string]struct{}

	// persistMu orders fallback saves and subscriber delivery by version.
	persistMu sync.Mutex
	delivered uint64
	subs      map[int]chan domain.CMSState
	nextSub   int

	qmu     sync.Mutex
	queue   []job
	closed  bool
	wake    chan struct{}
	stopped chan struct{}

	started atomic.Bool
	runCtx  context.Context
	prior   *domain.CMSState
}

// New seeds the state with defaults. Nothing talks to the backend until Start.
func New(backend Backend, local LocalStore, logger *zap.Logger, cfg Config) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 5 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	seed := domain.DefaultState()
	if cfg.Seed != nil {
		seed = cfg.Seed.Clone()
	}
	seed.Normalize()

	return &Synchronizer{
		backend:  backend,
		local:    local,
		logger:   logger,
		cfg:      cfg,
		state:    seed,
		aliases:  make(map[string]string),
		inflight: make(map[string]struct{}),
		subs:     make(map[int]chan domain.CMSState),
		wake:     make(chan struct{}, 1),
		stopped:  make(chan struct{}),
	}
}

// Start launches the backend worker and queues the initial load as its
// first job. It does not wait for the load; the returned Op settles when
// the load has been applied.
func (s *Synchronizer) Start(ctx context.Context) *Op {
	if s == nil {
		panic(ErrNotStarted)
	}
	if !s.started.CompareAndSwap(false, true) {
		return settled(Result{Outcome: OutcomeLocalOnly, Cause: errors.New("syncer: already started")})
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s.runCtx = ctx

	// Read the previous session's snapshot before any mutation can
	// overwrite it.
	if s.local != nil {
		prior, err := s.local.Load()
		switch {
		case err == nil:
			s.prior = &prior
		case !errors.Is(err, domain.ErrNoLocalState):
			s.logger.Warn("local state unreadable", zap.Error(err))
		}
	}

	op := newOp()
	s.enqueue(op, func(ctx context.Context) {
		op.finish(s.load(ctx))
	})
	go s.run()
	return op
}

// Close stops accepting backend work and waits for queued calls to finish.
func (s *Synchronizer) Close(ctx context.Context) error {
	if s == nil || !s.started.Load() {
		return nil
	}
	s.qmu.Lock()
	s.closed = true
	s.qmu.Unlock()
	s.signal()

	select {
	case <-s.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns a deep copy of the current in-memory state.
func (s *Synchronizer) State() domain.CMSState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Subscribe delivers every new state snapshot. The channel holds only the
// latest snapshot; slow readers skip intermediate ones.
func (s *Synchronizer) Subscribe() (<-chan domain.CMSState, func()) {
	ch := make(chan domain.CMSState, 1)

	s.persistMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.persistMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.persistMu.Lock()
			delete(s.subs, id)
			close(ch)
			s.persistMu.Unlock()
		})
	}
}

// UpdateProducts replaces the catalog wholesale.
func (s *Synchronizer) UpdateProducts(products []domain.Product) *Op {
	s.mustBeStarted()
	list := domain.CMSState{Products: products}.Clone().Products
	s.commit(func(st *domain.CMSState) bool {
		st.Products = list
		return true
	})
	return s.push("products", func(ctx context.Context) error {
		return s.backend.PutProducts(ctx, list)
	})
}

// UpdateBlogs replaces all blog posts.
func (s *Synchronizer) UpdateBlogs(blogs []domain.BlogPost) *Op {
	s.mustBeStarted()
	list := append([]domain.BlogPost{}, blogs...)
	s.commit(func(st *domain.CMSState) bool {
		st.Blogs = list
		return true
	})
	return s.push("blogs", func(ctx context.Context) error {
		return s.backend.PutBlogs(ctx, list)
	})
}

// UpdateSiteConfig replaces the singleton config.
func (s *Synchronizer) UpdateSiteConfig(cfg domain.SiteConfig) *Op {
	s.mustBeStarted()
	s.commit(func(st *domain.CMSState) bool {
		st.SiteConfig = cfg
		return true
	})
	return s.push("config", func(ctx context.Context) error {
		return s.backend.PutConfig(ctx, cfg)
	})
}

// AddEnquiry records a lead immediately with a local id and timestamp, then
// swaps in the server's record once the backend confirms it.
func (s *Synchronizer) AddEnquiry(draft domain.EnquiryDraft) *Op {
	s.mustBeStarted()
	placeholder := draft.Accept(s.cfg.Now())

	s.commit(func(st *domain.CMSState) bool {
		st.Enquiries = append([]domain.Enquiry{placeholder}, st.Enquiries...)
		s.inflight[placeholder.ID] = struct{}{}
		return true
	})

	op := newOp()
	s.enqueue(op, func(ctx context.Context) {
		confirmed, err := s.backend.CreateEnquiry(ctx, draft)
		if err != nil {
			s.mu.Lock()
			delete(s.inflight, placeholder.ID)
			s.mu.Unlock()
			s.logger.Info("enquiry kept locally", zap.String("enquiry_id", placeholder.ID), zap.Error(err))
			local := placeholder
			if i, current := s.findEnquiry(placeholder.ID); i >= 0 {
				local = current
			}
			op.finish(Result{Outcome: OutcomeLocalOnly, Enquiry: &local, Cause: err})
			return
		}

		final := confirmed
		s.commit(func(st *domain.CMSState) bool {
			delete(s.inflight, placeholder.ID)
			s.aliases[placeholder.ID] = confirmed.ID
			i := st.FindEnquiry(placeholder.ID)
			if i < 0 {
				// deleted locally before the server answered
				return false
			}
			if local := st.Enquiries[i].Status; local != domain.StatusNew {
				final.Status = local
			}
			st.Enquiries[i] = final
			return true
		})
		op.finish(Result{Outcome: OutcomeSynced, Enquiry: &final})
	})
	return op
}

// UpdateEnquiryStatus sets the status in place and pushes it. Any status may
// follow any other.
func (s *Synchronizer) UpdateEnquiryStatus(id string, status domain.EnquiryStatus) *Op {
	s.mustBeStarted()
	if !status.Valid() {
		return settled(Result{Outcome: OutcomeLocalOnly, Cause: domain.Invalid("unknown enquiry status %q", status)})
	}
	s.commit(func(st *domain.CMSState) bool {
		i := s.locateEnquiry(st, id)
		if i < 0 {
			return false
		}
		st.Enquiries[i].Status = status
		return true
	})
	return s.push("enquiry status", func(ctx context.Context) error {
		return s.backend.UpdateEnquiryStatus(ctx, s.resolve(id), status)
	})
}

// DeleteEnquiry removes the enquiry from this session only. The backend has
// no delete endpoint, so the record returns on the next successful fetch.
func (s *Synchronizer) DeleteEnquiry(id string) bool {
	s.mustBeStarted()
	removed := false
	s.commit(func(st *domain.CMSState) bool {
		i := s.locateEnquiry(st, id)
		if i < 0 {
			return false
		}
		st.Enquiries = append(st.Enquiries[:i:i], st.Enquiries[i+1:]...)
		removed = true
		return true
	})
	return removed
}

func (s *Synchronizer) load(ctx context.Context) Result {
	remote, err := s.backend.FetchState(ctx)
	if err == nil {
		s.commit(func(st *domain.CMSState) bool {
			merged := st.MergeNonEmpty(remote)
			keepInflight(st, &merged, s.inflight)
			*st = merged
			return true
		})
		s.logger.Info("state loaded", zap.String("source", LoadRemote.String()))
		return Result{Outcome: OutcomeSynced, Source: LoadRemote}
	}

	s.logger.Warn("backend not reached, using local fallback", zap.Error(err))
	if s.prior == nil {
		return Result{Outcome: OutcomeLocalOnly, Source: LoadDefaults, Cause: err}
	}
	prior := s.prior.Clone()
	prior.Normalize()
	s.commit(func(st *domain.CMSState) bool {
		keepInflight(st, &prior, s.inflight)
		*st = prior
		return true
	})
	return Result{Outcome: OutcomeLocalOnly, Source: LoadLocal, Cause: err}
}

// keepInflight carries over optimistic enquiries whose create has not been
// answered yet, so a load cannot drop a lead the visitor just submitted.
func keepInflight(from, into *domain.CMSState, inflight map[string]struct{}) {
	if len(inflight) == 0 {
		return
	}
	var carried []domain.Enquiry
	for _, e := range from.Enquiries {
		if _, ok := inflight[e.ID]; ok && into.FindEnquiry(e.ID) < 0 {
			carried = append(carried, e)
		}
	}
	if len(carried) > 0 {
		into.Enquiries = append(carried, into.Enquiries...)
	}
}

// push queues a write whose only result is success or failure.
func (s *Synchronizer) push(what string, call func(ctx context.Context) error) *Op {
	op := newOp()
	s.enqueue(op, func(ctx context.Context) {
		if err := call(ctx); err != nil {
			s.logger.Info("backend write failed, keeping local change", zap.String("write", what), zap.Error(err))
			op.finish(Result{Outcome: OutcomeLocalOnly, Cause: err})
			return
		}
		op.finish(Result{Outcome: OutcomeSynced})
	})
	return op
}

// commit applies mutate under the state lock. When it reports a change the
// new snapshot is saved locally and delivered to subscribers.
func (s *Synchronizer) commit(mutate func(st *domain.CMSState) bool) {
	s.mu.Lock()
	if !mutate(&s.state) {
		s.mu.Unlock()
		return
	}
	s.state.Normalize()
	s.version++
	v := s.version
	snap := s.state.Clone()
	s.mu.Unlock()

	s.persist(v, snap)
}

func (s *Synchronizer) persist(v uint64, snap domain.CMSState) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	// a newer snapshot already went out
	if v <= s.delivered {
		return
	}
	s.delivered = v

	if s.local != nil {
		if err := s.local.Save(snap); err != nil {
			s.logger.Warn("local state save failed", zap.Error(err))
		}
	}
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (s *Synchronizer) findEnquiry(id string) (int, domain.Enquiry) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.state.FindEnquiry(id)
	if i < 0 {
		return i, domain.Enquiry{}
	}
	return i, s.state.Enquiries[i]
}

// locateEnquiry finds id in st, following the placeholder alias once the
// server has confirmed the record. Callers hold s.mu.
func (s *Synchronizer) locateEnquiry(st *domain.CMSState, id string) int {
	if i := st.FindEnquiry(id); i >= 0 {
		return i
	}
	if serverID, ok := s.aliases[id]; ok {
		return st.FindEnquiry(serverID)
	}
	return -1
}

func (s *Synchronizer) resolve(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if serverID, ok := s.aliases[id]; ok {
		return serverID
	}
	return id
}

func (s *Synchronizer) mustBeStarted() {
	if s == nil || !s.started.Load() {
		panic(ErrNotStarted)
	}
}

func (s *Synchronizer) enqueue(op *Op, j job) {
	s.qmu.Lock()
	if s.closed {
		s.qmu.Unlock()
		op.finish(Result{Outcome: OutcomeLocalOnly, Cause: ErrClosed})
		return
	}
	s.queue = append(s.queue, j)
	s.qmu.Unlock()
	s.signal()
}

func (s *Synchronizer) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Synchronizer) next() (job, bool) {
	for {
		s.qmu.Lock()
		if len(s.queue) > 0 {
			j := s.queue[0]
			s.queue[0] = nil
			s.queue = s.queue[1:]
			s.qmu.Unlock()
			return j, true
		}
		if s.closed {
			s.qmu.Unlock()
			return nil, false
		}
		s.qmu.Unlock()
		<-s.wake
	}
}

func (s *Synchronizer) run() {
	defer close(s.stopped)
	for {
		j, ok := s.next()
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(s.runCtx, s.cfg.CallTimeout)
		j(ctx)
		cancel()
	}
}
