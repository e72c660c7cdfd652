package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/service"
)

// respondError maps service errors to status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSaveInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("[http] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// ── Campaigns ──────────────────────────────────────────────

type createCampaignRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	CreatedBy   string    `json:"createdBy"`
}

// GET /campaigns
func (h *Handler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.pages.ListCampaigns(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if campaigns == nil {
		campaigns = []domain.Campaign{}
	}
	c.JSON(http.StatusOK, campaigns)
}

// POST /campaigns
func (h *Handler) CreateCampaign(c *gin.Context) {
	var req createCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	campaign, err := h.pages.CreateCampaign(c.Request.Context(), service.CreateCampaignInput{
		Name:        req.Name,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

// GET /campaigns/:id
func (h *Handler) GetCampaign(c *gin.Context) {
	campaign, err := h.pages.GetCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// DELETE /campaigns/:id
func (h *Handler) DeleteCampaign(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	pages, err := h.pages.ListPages(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.pages.DeleteCampaign(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	for _, p := range pages {
		h.dropSession(ctx, p.ID)
	}
	c.Status(http.StatusNoContent)
}

// ── Pages ──────────────────────────────────────────────────

type createPageRequest struct {
	CampaignID  string `json:"campaignId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type updatePageRequest struct {
	Title string `json:"title" binding:"required"`
}

// GET /pages?campaignId=
func (h *Handler) ListPages(c *gin.Context) {
	pages, err := h.pages.ListPages(c.Request.Context(), c.Query("campaignId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if pages == nil {
		pages = []domain.Page{}
	}
	c.JSON(http.StatusOK, pages)
}

// POST /pages
func (h *Handler) CreatePage(c *gin.Context) {
	var req createPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page, err := h.pages.CreatePage(c.Request.Context(), req.CampaignID, req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, page)
}

// GET /pages/:id
func (h *Handler) GetPage(c *gin.Context) {
	page, err := h.pages.GetPage(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// PATCH /pages/:id
func (h *Handler) UpdatePage(c *gin.Context) {
	var req updatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page, err := h.pages.RenamePage(c.Request.Context(), c.Param("id"), req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// DELETE /pages/:id
func (h *Handler) DeletePage(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.pages.GetPage(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	h.dropSession(ctx, id)
	if err := h.pages.DeletePage(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /pages/:id/document serves the live document of an open page and the
// stored one otherwise.
func (h *Handler) GetPageDocument(c *gin.Context) {
	doc, err := h.document(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GET /pages/:id/render lists visible components in render order and marks
// the eager ones.
func (h *Handler) GetRenderPlan(c *gin.Context) {
	doc, err := h.document(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": doc.Config, "slots": doc.RenderPlan()})
}

// POST /pages/:id/publish
func (h *Handler) PublishPage(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var (
		page *domain.Page
		err  error
	)
	if _, getErr := h.sessions.Get(id); getErr == nil {
		page, err = h.sessions.Publish(ctx, id)
	} else {
		page, err = h.pages.PublishPage(ctx, id)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /pages/:id/revisions
func (h *Handler) ListRevisions(c *gin.Context) {
	revs, err := h.pages.ListRevisions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, revs)
}

func (h *Handler) document(ctx context.Context, pageID string) (domain.PageDocument, error) {
	if st, err := h.sessions.Get(pageID); err == nil {
		return st.Document, nil
	}
	return h.pages.LoadDocument(ctx, pageID)
}

// dropSession closes an open editor without saving so it cannot write a
// deleted page back.
func (h *Handler) dropSession(ctx context.Context, pageID string) {
	if err := h.sessions.Close(ctx, pageID, false); err != nil && !errors.Is(err, service.ErrNoSession) {
		log.Printf("[http] close session %s: %v", pageID, err)
	}
}

// ── Templates ──────────────────────────────────────────────

// GET /templates?category=
func (h *Handler) ListTemplates(c *gin.Context) {
	if h.templates == nil {
		c.JSON(http.StatusOK, []service.Template{})
		return
	}
	c.JSON(http.StatusOK, h.templates.List(c.DefaultQuery("category", service.CategoryAll)))
}

// GET /templates/categories
func (h *Handler) ListTemplateCategories(c *gin.Context) {
	type category struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}
	out := []category{}
	if h.templates != nil {
		for _, id := range h.templates.Categories() {
			label := service.CategoryLabels[id]
			if label == "" {
				label = id
			}
			out = append(out, category{ID: id, Label: label})
		}
	}
	c.JSON(http.StatusOK, out)
}

// ── Approvals ──────────────────────────────────────────────

// GET /approvals
func (h *Handler) ListApprovals(c *gin.Context) {
	pending, err := h.approvals.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if pending == nil {
		c.JSON(http.StatusOK, []any{})
		return
	}
	c.JSON(http.StatusOK, pending)
}

// POST /approvals/:id/approve
func (h *Handler) ApproveAction(c *gin.Context) {
	h.resolveApproval(c, true)
}

// POST /approvals/:id/reject
func (h *Handler) RejectAction(c *gin.Context) {
	h.resolveApproval(c, false)
}

func (h *Handler) resolveApproval(c *gin.Context, approved bool) {
	id := c.Param("id")
	if err := h.approvals.Resolve(c.Request.Context(), id, approved); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "approved": approved})
}
