package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/spicecms/api/handler"
)

type Handlers struct {
	CMS    *apiHandler.CMSHandler
	Health *apiHandler.HealthHandler
}

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// New registers the CMS routes and wraps the router with the middleware
// chain; the first middleware is the outermost.
func New(handlers Handlers, middlewares ...Middleware) fasthttp.RequestHandler {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	api := r.Group("/api")
	api.GET("/state", handlers.CMS.GetState)
	api.POST("/enquiries", handlers.CMS.CreateEnquiry)
	api.POST("/enquiries/status", handlers.CMS.UpdateEnquiryStatus)
	api.POST("/products", handlers.CMS.ReplaceProducts)
	api.POST("/blogs", handlers.CMS.ReplaceBlogs)
	api.POST("/config", handlers.CMS.ReplaceConfig)

	h := r.Handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
