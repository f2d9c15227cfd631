package api

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"contentpilot/internal/pdf"
	"contentpilot/pkg/response"
)

type GenerateContentRequest struct {
	Theme       string `json:"theme" binding:"required" example:"Autumn launch"`
	Description string `json:"description" binding:"required" example:"Teaser for the new collection"`
	Prompt      string `json:"prompt"`
}

type GenerateContentResponse struct {
	Content string `json:"content"`
}

type AnalyzeSEORequest struct {
	Content string `json:"content" binding:"required"`
}

// GenerateContent godoc
//
//	@Summary	Generate free-form content
//	@Tags		generation
//	@Accept		json
//	@Produce	json
//	@Param		request	body		GenerateContentRequest	true	"Theme and description"
//	@Success	200		{object}	GenerateContentResponse
//	@Failure	400		{object}	response.Error
//	@Failure	500		{object}	response.Error
//	@Router		/api/generate-content [post]
func (h *Handler) GenerateContent(c *gin.Context) {
	var req GenerateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindingError(err))
		return
	}
	text, err := h.generator.Generate(c.Request.Context(), req.Theme, req.Description, req.Prompt)
	if err != nil {
		response.InternalError(c, "failed to generate content", err)
		return
	}
	response.Success(c, GenerateContentResponse{Content: text})
}

// AnalyzeSEO godoc
//
//	@Summary	Score content for SEO
//	@Tags		generation
//	@Accept		json
//	@Produce	json
//	@Param		request	body		AnalyzeSEORequest	true	"Content"
//	@Success	200		{object}	content.SEOAnalysis
//	@Failure	400		{object}	response.Error
//	@Failure	500		{object}	response.Error
//	@Router		/api/analyze-seo [post]
func (h *Handler) AnalyzeSEO(c *gin.Context) {
	var req AnalyzeSEORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindingError(err))
		return
	}
	result, err := h.generator.AnalyzeSEO(c.Request.Context(), req.Content)
	if err != nil {
		response.InternalError(c, "failed to analyze content", err)
		return
	}
	response.Success(c, result)
}

// AnalyzePDF godoc
//
//	@Summary	Summarise and risk-rate a PDF
//	@Tags		generation
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		pdf	formData	file	true	"PDF document"
//	@Success	200	{object}	content.DocumentAnalysis
//	@Failure	400	{object}	response.Error
//	@Failure	500	{object}	response.Error
//	@Router		/api/analyze-pdf [post]
func (h *Handler) AnalyzePDF(c *gin.Context) {
	header, err := c.FormFile("pdf")
	if err != nil {
		response.BadRequest(c, "no PDF file uploaded")
		return
	}
	if limit := int64(h.maxUploadMB) << 20; header.Size > limit {
		response.BadRequest(c, fmt.Sprintf("PDF exceeds %d MB", h.maxUploadMB))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.InternalError(c, "failed to read upload", err)
		return
	}
	defer func() { _ = file.Close() }()

	text, err := pdf.Extract(file, header.Size)
	if err != nil {
		if errors.Is(err, pdf.ErrNoText) {
			response.BadRequest(c, "no text found in PDF")
			return
		}
		slog.Warn("Unreadable PDF upload", "file", header.Filename, "error", err)
		response.BadRequest(c, "could not read PDF")
		return
	}

	result, err := h.generator.AnalyzeDocument(c.Request.Context(), text)
	if err != nil {
		response.InternalError(c, "failed to analyze document", err)
		return
	}
	response.Success(c, result)
}
