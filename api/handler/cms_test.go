package handler

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/spicecms/domain"
	"github.com/fastygo/spicecms/internal/infrastructure/monitor"
	"github.com/fastygo/spicecms/pkg/httpcontext"
	"github.com/fastygo/spicecms/repository/bolt"
	cmsUC "github.com/fastygo/spicecms/usecase/cms"
)

func newHandler(t *testing.T) *CMSHandler {
	t.Helper()
	store, err := bolt.Open(filepath.Join(t.TempDir(), "cms.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewCMSHandler(cmsUC.New(store, nil), httpcontext.NewAdapter(time.Second), nil)
}

func call(h fasthttp.RequestHandler, method string, body string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	if body != "" {
		req.SetBodyString(body)
	}
	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	h(&ctx)
	return &ctx
}

func TestGetState_Empty(t *testing.T) {
	h := newHandler(t)

	ctx := call(h.GetState, http.MethodGet, "")

	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"products":[],"blogs":[],"enquiries":[],"siteConfig":{}}`, string(ctx.Response.Body()))
	assert.NotEmpty(t, string(ctx.Response.Header.Peek(httpcontext.HeaderRequestID)))
}

func TestCreateEnquiry_ReturnsCompletedRecord(t *testing.T) {
	h := newHandler(t)

	ctx := call(h.CreateEnquiry, http.MethodPost,
		`{"type":"B2B","name":"Asha","email":"","phone":"99","message":"bulk order","id":"client-id","status":"Contacted"}`)

	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	var got domain.Enquiry
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &got))
	assert.NotEqual(t, "client-id", got.ID)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, domain.StatusNew, got.Status)
	_, ok := got.ParseTime()
	assert.True(t, ok)
	assert.Equal(t, domain.EnquiryB2B, got.Type)
}

func TestCreateEnquiry_RejectsMissingFields(t *testing.T) {
	h := newHandler(t)

	ctx := call(h.CreateEnquiry, http.MethodPost, `{"type":"General","name":"A"}`)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())

	ctx = call(h.CreateEnquiry, http.MethodPost, `{not json`)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
}

func TestReplaceEndpoints_AckAndPersist(t *testing.T) {
	h := newHandler(t)

	ctx := call(h.ReplaceProducts, http.MethodPost, `[{"id":"p1","name":"Clove","type":"Whole","sizes":["50g"]}]`)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"success":true}`, string(ctx.Response.Body()))

	ctx = call(h.ReplaceBlogs, http.MethodPost, `[]`)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	ctx = call(h.ReplaceConfig, http.MethodPost, `{"brandName":"Deccan Tadka","socials":{"facebook":"fb"}}`)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	ctx = call(h.GetState, http.MethodGet, "")
	var state domain.CMSState
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &state))
	require.Len(t, state.Products, 1)
	assert.Equal(t, "Clove", state.Products[0].Name)
	assert.Equal(t, "fb", state.SiteConfig.Socials.Facebook)
}

func TestUpdateEnquiryStatus_UnknownIDIsNoop(t *testing.T) {
	h := newHandler(t)

	ctx := call(h.UpdateEnquiryStatus, http.MethodPost, `{"id":"nope","status":"Read"}`)
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	ctx = call(h.UpdateEnquiryStatus, http.MethodPost, `{"id":"nope","status":"Archived"}`)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())

	ctx = call(h.UpdateEnquiryStatus, http.MethodPost, `{"status":"Read"}`)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
}

type fixedStatus monitor.Status

func (f fixedStatus) GetStatus() monitor.Status { return monitor.Status(f) }

func TestHealth(t *testing.T) {
	up := NewHealthHandler(fixedStatus{Storage: true, Driver: "bolt"}, nil, nil)
	ctx := call(up.Check, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	down := NewHealthHandler(fixedStatus{Storage: false, Driver: "redis"}, nil, nil)
	ctx = call(down.Check, http.MethodGet, "")
	assert.Equal(t, http.StatusServiceUnavailable, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), "DEGRADED")
}

func TestMapError(t *testing.T) {
	status, code := mapError(domain.ErrBackendUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "UNAVAILABLE", code)

	status, _ = mapError(assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestReplaceBlogs_AcceptsFreeFormDates(t *testing.T) {
	h := newHandler(t)

	ctx := call(h.ReplaceBlogs, http.MethodPost,
		`[{"id":"b1","title":"Harvest","date":"2024-05-10","status":"Published"},{"id":"b2","title":"Old","date":"10 May 2024","status":"Draft"}]`)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	ctx = call(h.GetState, http.MethodGet, "")
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	var state domain.CMSState
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &state))
	require.Len(t, state.Blogs, 2)
	assert.Equal(t, "2024-05-10", state.Blogs[0].Date)
	assert.Equal(t, "10 May 2024", state.Blogs[1].Date)
}
