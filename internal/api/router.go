// Package api exposes content plans, credentials, prompt templates and the
// processing trigger over HTTP.
//
//	@title			contentpilot API
//	@version		1.0
//	@description	Content plans, generation helpers and the publishing pipeline trigger.
//	@BasePath		/
package api

import (
	"context"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "contentpilot/internal/api/docs"
	"contentpilot/internal/content"
	"contentpilot/internal/model"
	"contentpilot/internal/pipeline"
	"contentpilot/internal/store"
)

type PlanStore interface {
	ListPlans(ctx context.Context) ([]model.ContentPlan, error)
	GetPlan(ctx context.Context, id uint) (*model.ContentPlan, error)
	CreatePlan(ctx context.Context, plan *model.ContentPlan) error
	UpdatePlan(ctx context.Context, id uint, patch store.PlanPatch) (*model.ContentPlan, error)
	DeletePlan(ctx context.Context, id uint) (*model.ContentPlan, error)
	Requeue(ctx context.Context, id uint) error
}

type KeyStore interface {
	ListAPIKeys(ctx context.Context) ([]model.APIKey, error)
	CreateAPIKey(ctx context.Context, key *model.APIKey) error
	DeleteAPIKey(ctx context.Context, id uint) (*model.APIKey, error)
}

type TemplateStore interface {
	ListTemplates(ctx context.Context) ([]model.PromptTemplate, error)
	CreateTemplate(ctx context.Context, tmpl *model.PromptTemplate) error
	DeleteTemplate(ctx context.Context, id uint) (*model.PromptTemplate, error)
}

type Generator interface {
	Generate(ctx context.Context, theme, description, prompt string) (string, error)
	AnalyzeSEO(ctx context.Context, text string) (*content.SEOAnalysis, error)
	AnalyzeDocument(ctx context.Context, text string) (*content.DocumentAnalysis, error)
}

type Processor interface {
	ProcessUnpublishedContent(ctx context.Context) (pipeline.PassReport, error)
}

type Dependencies struct {
	Plans     PlanStore
	Keys      KeyStore
	Templates TemplateStore
	Generator Generator
	Processor Processor
}

type Options struct {
	// MediaDir is served under /media when set.
	MediaDir    string
	Swagger     bool
	Tracing     bool
	ServiceName string
	MaxUploadMB int
}

type Handler struct {
	plans       PlanStore
	keys        KeyStore
	templates   TemplateStore
	generator   Generator
	processor   Processor
	maxUploadMB int
}

func NewHandler(deps Dependencies, maxUploadMB int) *Handler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &Handler{
		plans:       deps.Plans,
		keys:        deps.Keys,
		templates:   deps.Templates,
		generator:   deps.Generator,
		processor:   deps.Processor,
		maxUploadMB: maxUploadMB,
	}
}

// NewRouter builds the gin engine with middleware and every route mounted.
func NewRouter(deps Dependencies, opts Options) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(RequestID(), RequestLogger(), Recovery())
	if opts.Tracing {
		name := opts.ServiceName
		if name == "" {
			name = "contentpilot"
		}
		r.Use(otelgin.Middleware(name))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/media", "/swagger"})))

	h := NewHandler(deps, opts.MaxUploadMB)

	r.GET("/healthz", h.Health)
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if opts.MediaDir != "" {
		r.Static("/media", opts.MediaDir)
	}

	api := r.Group("/api")
	{
		plans := api.Group("/content-plans")
		plans.GET("", h.ListPlans)
		plans.POST("", h.CreatePlan)
		plans.PATCH("/:id", h.UpdatePlan)
		plans.DELETE("/:id", h.DeletePlan)
		plans.POST("/:id/requeue", h.RequeuePlan)

		keys := api.Group("/api-keys")
		keys.GET("", h.ListAPIKeys)
		keys.POST("", h.CreateAPIKey)
		keys.DELETE("/:id", h.DeleteAPIKey)

		templates := api.Group("/prompt-templates")
		templates.GET("", h.ListTemplates)
		templates.POST("", h.CreateTemplate)
		templates.DELETE("/:id", h.DeleteTemplate)

		api.POST("/generate-content", h.GenerateContent)
		api.POST("/analyze-seo", h.AnalyzeSEO)
		api.POST("/analyze-pdf", h.AnalyzePDF)
		api.POST("/process-content", h.ProcessContent)
	}

	return r
}

// Health godoc
//
//	@Summary	Liveness check
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/healthz [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
