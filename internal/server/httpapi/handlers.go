package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/tippace/internal/common"
	"github.com/dmitrijs2005/tippace/internal/datex"
	"github.com/dmitrijs2005/tippace/internal/logging"
	"github.com/dmitrijs2005/tippace/internal/pace"
	"github.com/dmitrijs2005/tippace/internal/server/models"
	"github.com/dmitrijs2005/tippace/internal/server/services"
	"github.com/gin-gonic/gin"
)

type PaceService interface {
	View(ctx context.Context, userID string) (pace.View, error)
	Update(ctx context.Context, userID string, u services.PaceUpdate) (*services.PaceResult, error)
	Flush(ctx context.Context, userID string) error
}

type ShiftService interface {
	Summary(ctx context.Context, userID string, from, to datex.Date) (*services.ShiftSummary, error)
}

type ExportService interface {
	Export(ctx context.Context, userID string, from, to datex.Date) (*services.ExportLink, error)
}

type handler struct {
	pace   PaceService
	shifts ShiftService
	export ExportService
	logger logging.Logger
}

// paceRequest is the PATCH /api/pace body. Absent fields are left unchanged.
type paceRequest struct {
	PaceType        *string `json:"pace_type" binding:"omitempty,oneof=weekly monthly"`
	GoalCents       *int64  `json:"goal_cents" binding:"omitempty,min=0"`
	ShiftsRemaining *int    `json:"shifts_remaining"`
	EditingGoal     *bool   `json:"editing_goal"`
}

type rangeQuery struct {
	From string `json:"from" form:"from" binding:"required,datetime=2006-01-02"`
	To   string `json:"to" form:"to" binding:"required,datetime=2006-01-02"`
}

func (q rangeQuery) dates() (datex.Date, datex.Date, error) {
	from, err := datex.Parse(q.From)
	if err != nil {
		return datex.Date{}, datex.Date{}, err
	}
	to, err := datex.Parse(q.To)
	if err != nil {
		return datex.Date{}, datex.Date{}, err
	}
	return from, to, nil
}

func userID(c *gin.Context) string {
	return c.GetString(common.UserIDContextKey)
}

func (h *handler) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

func (h *handler) getPace(c *gin.Context) {
	v, err := h.pace.View(c.Request.Context(), userID(c))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *handler) patchPace(c *gin.Context) {
	var req paceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindingError(c, err)
		return
	}

	u := services.PaceUpdate{
		GoalCents:       req.GoalCents,
		ShiftsRemaining: req.ShiftsRemaining,
		EditingGoal:     req.EditingGoal,
	}
	if req.PaceType != nil {
		t := models.PaceType(*req.PaceType)
		u.PaceType = &t
	}

	res, err := h.pace.Update(c.Request.Context(), userID(c), u)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) flushPace(c *gin.Context) {
	if err := h.pace.Flush(c.Request.Context(), userID(c)); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) bindRange(c *gin.Context) (datex.Date, datex.Date, bool) {
	var q rangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithBindingError(c, err)
		return datex.Date{}, datex.Date{}, false
	}

	from, to, err := q.dates()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, newErrorResponse(err.Error()))
		return datex.Date{}, datex.Date{}, false
	}
	return from, to, true
}

func (h *handler) shiftSummary(c *gin.Context) {
	from, to, ok := h.bindRange(c)
	if !ok {
		return
	}

	s, err := h.shifts.Summary(c.Request.Context(), userID(c), from, to)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *handler) exportShifts(c *gin.Context) {
	from, to, ok := h.bindRange(c)
	if !ok {
		return
	}
	if from.After(to) {
		h.abortWithError(c, common.ErrInvalidDateRange)
		return
	}

	link, err := h.export.Export(c.Request.Context(), userID(c), from, to)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}
