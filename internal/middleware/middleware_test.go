package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fastygo/spicecms/pkg/httpcontext"
)

func run(h fasthttp.RequestHandler, method string, reqID string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI("/api/state")
	if reqID != "" {
		req.Header.Set(httpcontext.HeaderRequestID, reqID)
	}
	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	h(&ctx)
	return &ctx
}

func teapot(ctx *fasthttp.RequestCtx) { ctx.SetStatusCode(http.StatusTeapot) }

func TestCORS_HeadersOnEveryResponse(t *testing.T) {
	h := CORS("")(teapot)

	ctx := run(h, http.MethodGet, "")

	assert.Equal(t, http.StatusTeapot, ctx.Response.StatusCode())
	assert.Equal(t, "*", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))
	assert.Empty(t, ctx.Response.Header.Peek("Vary"))
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	h := CORS("https://example.com")(func(ctx *fasthttp.RequestCtx) { called = true })

	ctx := run(h, http.MethodOptions, "")

	assert.False(t, called)
	assert.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Header.Peek("Access-Control-Allow-Methods")), "POST")
	assert.Equal(t, "Origin", string(ctx.Response.Header.Peek("Vary")))
}

func TestAccessLog_ReusesRequestID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := AccessLog(zap.New(core))(teapot)

	ctx := run(h, http.MethodGet, "req-42")

	assert.Equal(t, "req-42", string(ctx.Response.Header.Peek(httpcontext.HeaderRequestID)))
	entries := logs.FilterMessage("request served").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-42", fields["request_id"])
		assert.EqualValues(t, http.StatusTeapot, fields["status"])
	}
}

func TestAccessLog_ServerErrorsAtWarn(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := AccessLog(zap.New(core))(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(http.StatusInternalServerError)
	})

	ctx := run(h, http.MethodGet, "")

	assert.NotEmpty(t, ctx.Response.Header.Peek(httpcontext.HeaderRequestID))
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
}
