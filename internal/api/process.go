package api

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"contentpilot/internal/pipeline"
	"contentpilot/pkg/response"
)

type ProcessResponse struct {
	Message string              `json:"message" example:"content processing completed"`
	Report  pipeline.PassReport `json:"report"`
}

// ProcessContent godoc
//
//	@Summary	Run one publishing pass now
//	@Tags		pipeline
//	@Produce	json
//	@Success	200	{object}	ProcessResponse
//	@Failure	409	{object}	response.Error
//	@Failure	500	{object}	response.Error
//	@Router		/api/process-content [post]
func (h *Handler) ProcessContent(c *gin.Context) {
	// A client disconnect must not abandon plans mid-publish.
	ctx := context.WithoutCancel(c.Request.Context())

	report, err := h.processor.ProcessUnpublishedContent(ctx)
	if err != nil {
		if errors.Is(err, pipeline.ErrPassInProgress) {
			response.Conflict(c, "content processing is already running")
			return
		}
		response.InternalError(c, "failed to process content", err)
		return
	}
	response.Success(c, ProcessResponse{Message: "content processing completed", Report: report})
}
