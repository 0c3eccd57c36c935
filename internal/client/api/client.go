// Package api is the HTTP binding of syncer.Backend against the CMS server.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/spicecms/api/transport"
	"github.com/fastygo/spicecms/domain"
	"github.com/fastygo/spicecms/internal/client/syncer"
)

const (
	defaultTimeout   = 5 * time.Second
	defaultUserAgent = "spicecms-client/1.0"
)

var _ syncer.Backend = (*Client)(nil)

// Client talks to the CMS HTTP API. Every failure, whether transport,
// status or decoding, is reported as domain.ErrBackendUnavailable.
type Client struct {
	baseURL string
	http    *fasthttp.Client
	timeout time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying fasthttp client, e.g. to dial an
// in-memory listener.
func WithHTTPClient(hc *fasthttp.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds calls whose context carries no deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New builds a Client for baseURL, which includes the /api prefix.
func New(baseURL string, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: base,
		http:    &fasthttp.Client{Name: defaultUserAgent},
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) FetchState(ctx context.Context) (domain.CMSState, error) {
	var state domain.CMSState
	if err := c.do(ctx, fasthttp.MethodGet, "/state", nil, &state); err != nil {
		return domain.CMSState{}, err
	}
	state.Normalize()
	return state, nil
}

func (c *Client) PutProducts(ctx context.Context, products []domain.Product) error {
	if products == nil {
		products = []domain.Product{}
	}
	return c.do(ctx, fasthttp.MethodPost, "/products", products, nil)
}

func (c *Client) PutBlogs(ctx context.Context, blogs []domain.BlogPost) error {
	if blogs == nil {
		blogs = []domain.BlogPost{}
	}
	return c.do(ctx, fasthttp.MethodPost, "/blogs", blogs, nil)
}

func (c *Client) PutConfig(ctx context.Context, cfg domain.SiteConfig) error {
	return c.do(ctx, fasthttp.MethodPost, "/config", cfg, nil)
}

func (c *Client) CreateEnquiry(ctx context.Context, draft domain.EnquiryDraft) (domain.Enquiry, error) {
	var enquiry domain.Enquiry
	if err := c.do(ctx, fasthttp.MethodPost, "/enquiries", draft, &enquiry); err != nil {
		return domain.Enquiry{}, err
	}
	if enquiry.ID == "" {
		return domain.Enquiry{}, domain.Unavailable(fmt.Errorf("server returned enquiry without id"))
	}
	return enquiry, nil
}

func (c *Client) UpdateEnquiryStatus(ctx context.Context, id string, status domain.EnquiryStatus) error {
	body := transport.EnquiryStatusRequest{ID: id, Status: status}
	return c.do(ctx, fasthttp.MethodPost, "/enquiries/status", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	if c == nil {
		return domain.Unavailable(fmt.Errorf("client is nil"))
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return domain.Unavailable(err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return domain.Unavailable(fmt.Errorf("encode request: %w", err))
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(raw)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return domain.Unavailable(fmt.Errorf("%s %s: %w", method, path, err))
	}

	if code := resp.StatusCode(); code >= fasthttp.StatusBadRequest {
		return domain.Unavailable(fmt.Errorf("%s %s returned status %d", method, path, code))
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), dest); err != nil {
		return domain.Unavailable(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
