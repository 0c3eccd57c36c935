package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/spicecms/api/transport"
	"github.com/fastygo/spicecms/domain"
	"github.com/fastygo/spicecms/pkg/httpcontext"
	cmsUC "github.com/fastygo/spicecms/usecase/cms"
)

type CMSHandler struct {
	baseHandler
	uc *cmsUC.UseCase
}

func NewCMSHandler(uc *cmsUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *CMSHandler {
	return &CMSHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Full CMS state
// @Tags cms
// @Router /api/state [get]
func (h *CMSHandler) GetState(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	state, err := h.uc.State(stdCtx)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, state)
}

// @Summary Submit an enquiry
// @Tags enquiries
// @Router /api/enquiries [post]
func (h *CMSHandler) CreateEnquiry(ctx *fasthttp.RequestCtx) {
	var draft domain.EnquiryDraft
	if !h.decode(ctx, &draft) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	enquiry, err := h.uc.CreateEnquiry(stdCtx, draft)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, enquiry)
}

// @Summary Change an enquiry status
// @Tags enquiries
// @Router /api/enquiries/status [post]
func (h *CMSHandler) UpdateEnquiryStatus(ctx *fasthttp.RequestCtx) {
	var req transport.EnquiryStatusRequest
	if !h.decode(ctx, &req) {
		return
	}
	if req.ID == "" {
		h.respondInvalid(ctx, "missing enquiry id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.UpdateEnquiryStatus(stdCtx, req.ID, req.Status); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.OK)
}

// @Summary Replace the product catalog
// @Tags products
// @Router /api/products [post]
func (h *CMSHandler) ReplaceProducts(ctx *fasthttp.RequestCtx) {
	var products []domain.Product
	if !h.decode(ctx, &products) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.ReplaceProducts(stdCtx, products); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.OK)
}

// @Summary Replace all blog posts
// @Tags blogs
// @Router /api/blogs [post]
func (h *CMSHandler) ReplaceBlogs(ctx *fasthttp.RequestCtx) {
	var blogs []domain.BlogPost
	if !h.decode(ctx, &blogs) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.ReplaceBlogs(stdCtx, blogs); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.OK)
}

// @Summary Replace the site configuration
// @Tags config
// @Router /api/config [post]
func (h *CMSHandler) ReplaceConfig(ctx *fasthttp.RequestCtx) {
	var cfg domain.SiteConfig
	if !h.decode(ctx, &cfg) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.ReplaceConfig(stdCtx, cfg); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.OK)
}
