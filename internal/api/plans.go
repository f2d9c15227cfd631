package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"contentpilot/internal/model"
	"contentpilot/internal/store"
	"contentpilot/pkg/response"
)

type ChannelRequest struct {
	Medium  string `json:"medium" binding:"required,medium" example:"instagram"`
	Channel string `json:"channel" binding:"required" example:"@brand"`
}

type CreatePlanRequest struct {
	Theme             string           `json:"theme" binding:"required" example:"Autumn launch"`
	Description       string           `json:"description" binding:"required" example:"Teaser for the new collection"`
	Prompt            *string          `json:"prompt"`
	TargetPublishDate string           `json:"targetPublishDate" binding:"required" example:"2026-11-01"`
	Channels          []ChannelRequest `json:"channels" binding:"dive"`
	ContentURL        *string          `json:"contentUrl"`
}

// UpdatePlanRequest carries only the fields to change.
type UpdatePlanRequest struct {
	Theme             *string           `json:"theme"`
	Description       *string           `json:"description"`
	Prompt            *string           `json:"prompt"`
	TargetPublishDate *string           `json:"targetPublishDate"`
	Channels          *[]ChannelRequest `json:"channels" binding:"omitempty,dive"`
	ContentURL        *string           `json:"contentUrl"`
}

func toChannels(reqs []ChannelRequest) []model.Channel {
	channels := make([]model.Channel, 0, len(reqs))
	for _, r := range reqs {
		channels = append(channels, model.Channel{Medium: r.Medium, Channel: r.Channel})
	}
	return channels
}

// ListPlans godoc
//
//	@Summary	List content plans
//	@Tags		content-plans
//	@Produce	json
//	@Success	200	{array}		model.ContentPlan
//	@Failure	500	{object}	response.Error
//	@Router		/api/content-plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.plans.ListPlans(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to fetch content plans", err)
		return
	}
	response.Success(c, plans)
}

// CreatePlan godoc
//
//	@Summary	Create a content plan
//	@Tags		content-plans
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreatePlanRequest	true	"Plan"
//	@Success	201		{object}	model.ContentPlan
//	@Failure	400		{object}	response.Error
//	@Failure	500		{object}	response.Error
//	@Router		/api/content-plans [post]
func (h *Handler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindingError(err))
		return
	}
	target, err := parseDate(req.TargetPublishDate)
	if err != nil {
		response.BadRequest(c, "targetPublishDate: "+err.Error())
		return
	}

	plan := &model.ContentPlan{
		Theme:             req.Theme,
		Description:       req.Description,
		Prompt:            req.Prompt,
		TargetPublishDate: target,
		ContentURL:        req.ContentURL,
	}
	plan.Channels = toChannels(req.Channels)

	if err := h.plans.CreatePlan(c.Request.Context(), plan); err != nil {
		response.InternalError(c, "failed to create content plan", err)
		return
	}
	response.Created(c, plan)
}

// UpdatePlan godoc
//
//	@Summary	Edit a pending content plan
//	@Tags		content-plans
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int					true	"Plan ID"
//	@Param		request	body		UpdatePlanRequest	true	"Fields to change"
//	@Success	200		{object}	model.ContentPlan
//	@Failure	400		{object}	response.Error
//	@Failure	404		{object}	response.Error
//	@Failure	409		{object}	response.Error
//	@Router		/api/content-plans/{id} [patch]
func (h *Handler) UpdatePlan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "invalid id")
		return
	}
	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindingError(err))
		return
	}

	patch := store.PlanPatch{
		Theme:       req.Theme,
		Description: req.Description,
		Prompt:      req.Prompt,
		ContentURL:  req.ContentURL,
	}
	if req.TargetPublishDate != nil {
		target, err := parseDate(*req.TargetPublishDate)
		if err != nil {
			response.BadRequest(c, "targetPublishDate: "+err.Error())
			return
		}
		patch.TargetPublishDate = &target
	}
	if req.Channels != nil {
		channels := toChannels(*req.Channels)
		patch.Channels = &channels
	}
	if (patch.Theme != nil && *patch.Theme == "") || (patch.Description != nil && *patch.Description == "") {
		response.BadRequest(c, "theme and description cannot be empty")
		return
	}

	plan, err := h.plans.UpdatePlan(c.Request.Context(), id, patch)
	if err != nil {
		h.planError(c, err, "failed to update content plan")
		return
	}
	response.Success(c, plan)
}

// DeletePlan godoc
//
//	@Summary	Delete an unpublished content plan
//	@Tags		content-plans
//	@Produce	json
//	@Param		id	path		int	true	"Plan ID"
//	@Success	200	{object}	response.Message
//	@Failure	404	{object}	response.Error
//	@Failure	409	{object}	response.Error
//	@Router		/api/content-plans/{id} [delete]
func (h *Handler) DeletePlan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "invalid id")
		return
	}
	if _, err := h.plans.DeletePlan(c.Request.Context(), id); err != nil {
		h.planError(c, err, "failed to delete content plan")
		return
	}
	response.Success(c, response.Message{Message: "content plan deleted"})
}

// RequeuePlan godoc
//
//	@Summary	Move a failed plan back to pending
//	@Tags		content-plans
//	@Produce	json
//	@Param		id	path		int	true	"Plan ID"
//	@Success	200	{object}	model.ContentPlan
//	@Failure	404	{object}	response.Error
//	@Failure	409	{object}	response.Error
//	@Router		/api/content-plans/{id}/requeue [post]
func (h *Handler) RequeuePlan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "invalid id")
		return
	}
	ctx := c.Request.Context()
	if err := h.plans.Requeue(ctx, id); err != nil {
		h.planError(c, err, "failed to requeue content plan")
		return
	}
	plan, err := h.plans.GetPlan(ctx, id)
	if err != nil {
		h.planError(c, err, "failed to fetch content plan")
		return
	}
	response.Success(c, plan)
}

func (h *Handler) planError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.NotFound(c, "content plan not found")
	case errors.Is(err, store.ErrNotPending):
		response.Conflict(c, "content plan is not pending")
	case errors.Is(err, store.ErrNotFailed):
		response.Conflict(c, "content plan is not failed")
	case errors.Is(err, store.ErrPlanBusy):
		response.Conflict(c, "content plan is being published, try again later")
	default:
		response.InternalError(c, msg, err)
	}
}
