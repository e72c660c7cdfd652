package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"
)

// Deps are the services the HTTP API serves.
type Deps struct {
	Pages     *service.PageService
	Sessions  *service.SessionService
	Templates *service.TemplateService
	Approvals *storage.ApprovalStore
}

// Handler holds the route handlers.
type Handler struct {
	pages     *service.PageService
	sessions  *service.SessionService
	templates *service.TemplateService
	approvals *storage.ApprovalStore
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		pages:     d.Pages,
		sessions:  d.Sessions,
		templates: d.Templates,
		approvals: d.Approvals,
	}
}

// NewRouter builds the gin engine. An empty corsOrigin disables CORS.
func NewRouter(d Deps, corsOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	if corsOrigin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{corsOrigin},
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	RegisterRoutes(r, NewHandler(d))
	return r
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/templates", h.ListTemplates)
	r.GET("/templates/categories", h.ListTemplateCategories)
	r.GET("/pages/:id/document", h.GetPageDocument)
	r.GET("/pages/:id/render", h.GetRenderPlan)

	// Metadata writes carry user text that ends up in page markup
	api := r.Group("/")
	api.Use(SanitizeInputMiddleware())

	api.GET("/campaigns", h.ListCampaigns)
	api.POST("/campaigns", h.CreateCampaign)
	api.GET("/campaigns/:id", h.GetCampaign)
	api.DELETE("/campaigns/:id", h.DeleteCampaign)

	api.GET("/pages", h.ListPages)
	api.POST("/pages", h.CreatePage)
	api.GET("/pages/:id", h.GetPage)
	api.PATCH("/pages/:id", h.UpdatePage)
	api.DELETE("/pages/:id", h.DeletePage)
	api.POST("/pages/:id/publish", h.PublishPage)
	api.GET("/pages/:id/revisions", h.ListRevisions)

	api.GET("/approvals", h.ListApprovals)
	api.POST("/approvals/:id/approve", h.ApproveAction)
	api.POST("/approvals/:id/reject", h.RejectAction)
}
