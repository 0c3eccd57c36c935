package api

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	apiHandler "github.com/fastygo/spicecms/api/handler"
	"github.com/fastygo/spicecms/domain"
	"github.com/fastygo/spicecms/internal/client/syncer"
	"github.com/fastygo/spicecms/internal/infrastructure/fallback"
	"github.com/fastygo/spicecms/internal/infrastructure/monitor"
	"github.com/fastygo/spicecms/internal/middleware"
	"github.com/fastygo/spicecms/internal/router"
	"github.com/fastygo/spicecms/pkg/httpcontext"
	"github.com/fastygo/spicecms/repository/bolt"
	cmsUC "github.com/fastygo/spicecms/usecase/cms"
)

// serve runs the full HTTP stack over an in-memory listener and returns a
// client dialing it.
func serve(t *testing.T) *Client {
	t.Helper()
	store, err := bolt.Open(filepath.Join(t.TempDir(), "cms.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	adapter := httpcontext.NewAdapter(time.Second)
	mon := monitor.New(store, "bolt", time.Minute, nil)
	mon.Start()
	t.Cleanup(mon.Stop)

	h := router.New(router.Handlers{
		CMS:    apiHandler.NewCMSHandler(cmsUC.New(store, nil), adapter, nil),
		Health: apiHandler.NewHealthHandler(mon, adapter, nil),
	}, middleware.AccessLog(nil), middleware.CORS("*"))

	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: h}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	c, err := New("http://cms.test/api", WithHTTPClient(&fasthttp.Client{
		Dial: func(string) (net.Conn, error) { return ln.Dial() },
	}))
	require.NoError(t, err)
	return c
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := New("localhost/api")
	assert.Error(t, err)

	c, err := New("http://localhost:3001/api/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3001/api", c.baseURL)
}

func TestClient_RoundTrip(t *testing.T) {
	c := serve(t)
	ctx := context.Background()

	state, err := c.FetchState(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Products)
	assert.False(t, state.SiteConfig.Present())

	defaults := domain.DefaultState()
	require.NoError(t, c.PutProducts(ctx, defaults.Products))
	require.NoError(t, c.PutBlogs(ctx, defaults.Blogs))
	require.NoError(t, c.PutConfig(ctx, defaults.SiteConfig))

	enquiry, err := c.CreateEnquiry(ctx, domain.EnquiryDraft{
		Type: domain.EnquiryGeneral, Name: "Asha", Phone: "99", Message: "hello",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, enquiry.ID)
	assert.Equal(t, domain.StatusNew, enquiry.Status)

	require.NoError(t, c.UpdateEnquiryStatus(ctx, enquiry.ID, domain.StatusRead))

	state, err = c.FetchState(ctx)
	require.NoError(t, err)
	assert.Len(t, state.Products, 3)
	assert.Equal(t, defaults.SiteConfig, state.SiteConfig)
	require.Len(t, state.Enquiries, 1)
	assert.Equal(t, domain.StatusRead, state.Enquiries[0].Status)
}

func TestClient_RejectionIsUnavailable(t *testing.T) {
	c := serve(t)

	_, err := c.CreateEnquiry(context.Background(), domain.EnquiryDraft{Type: domain.EnquiryB2B})

	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestClient_UnreachableIsUnavailable(t *testing.T) {
	ln := fasthttputil.NewInmemoryListener()
	require.NoError(t, ln.Close())
	c, err := New("http://cms.test/api", WithHTTPClient(&fasthttp.Client{
		Dial: func(string) (net.Conn, error) { return ln.Dial() },
	}))
	require.NoError(t, err)

	_, err = c.FetchState(context.Background())
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.PutConfig(ctx, domain.SiteConfig{}), domain.ErrBackendUnavailable)
}

func TestSynchronizer_AgainstServer(t *testing.T) {
	c := serve(t)
	local := fallback.NewMemory()
	s := syncer.New(c, local, nil, syncer.Config{CallTimeout: 2 * time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := s.Start(ctx).Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, syncer.OutcomeSynced, res.Outcome)
	defer func() { _ = s.Close(context.Background()) }()

	res, err = s.AddEnquiry(domain.EnquiryDraft{
		Type: domain.EnquiryProduct, Name: "Ravi", Phone: "98", Message: "price?", ProductName: "Whole Jeera",
	}).Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, syncer.OutcomeSynced, res.Outcome)

	remote, err := c.FetchState(ctx)
	require.NoError(t, err)
	require.Len(t, remote.Enquiries, 1)
	assert.Equal(t, res.Enquiry.ID, remote.Enquiries[0].ID)
	assert.Equal(t, []domain.Enquiry{*res.Enquiry}, s.State().Enquiries)
}
