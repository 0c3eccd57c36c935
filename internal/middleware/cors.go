package middleware

import (
	"github.com/valyala/fasthttp"
)

const (
	allowMethods = "GET, POST, OPTIONS"
	allowHeaders = "Content-Type, X-Request-ID"
)

// CORS lets the browser site call the API from another origin. Preflight
// requests are answered here and never reach the router.
func CORS(allowOrigin string) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			ctx.Response.Header.Set("Access-Control-Allow-Origin", allowOrigin)
			ctx.Response.Header.Set("Access-Control-Expose-Headers", "X-Request-ID")
			if allowOrigin != "*" {
				ctx.Response.Header.Add("Vary", "Origin")
			}

			if ctx.IsOptions() {
				ctx.Response.Header.Set("Access-Control-Allow-Methods", allowMethods)
				ctx.Response.Header.Set("Access-Control-Allow-Headers", allowHeaders)
				ctx.Response.Header.Set("Access-Control-Max-Age", "600")
				ctx.SetStatusCode(fasthttp.StatusNoContent)
				return
			}

			next(ctx)
		}
	}
}
