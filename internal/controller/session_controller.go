package controller

import (
	"errors"

	"learnpath_backend/internal/model"
	"learnpath_backend/internal/service"
	"learnpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	State    *service.StateManager
	Sessions *service.SessionService
}

func NewSessionController(state *service.StateManager, sessions *service.SessionService) *SessionController {
	return &SessionController{State: state, Sessions: sessions}
}

// @Summary Start a learning session
// @Description Opens a session; starting while one is open is refused
// @Tags sessions
// @Produce json
// @Success 201 {object} util.Response
// @Router /api/sessions/start [post]
func (c *SessionController) Start(ctx *gin.Context) {
	doc, err := c.State.Apply(ctx.Request.Context(), func(current *model.ProgressDocument) (*model.ProgressDocument, error) {
		return c.Sessions.Start(current)
	})
	if errors.Is(err, util.ErrSessionAlreadyActive) {
		util.Conflict(ctx, "A learning session is already active")
		return
	}
	if err != nil {
		util.ServiceUnavailable(ctx, "Progress could not be saved; the change was rolled back")
		return
	}

	util.Created(ctx, doc.SessionHistory[len(doc.SessionHistory)-1])
}

// @Summary End the active learning session
// @Tags sessions
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/sessions/end [post]
func (c *SessionController) End(ctx *gin.Context) {
	doc, err := c.State.Apply(ctx.Request.Context(), func(current *model.ProgressDocument) (*model.ProgressDocument, error) {
		return c.Sessions.End(current)
	})
	if errors.Is(err, util.ErrNoActiveSession) {
		util.Conflict(ctx, "No learning session is active")
		return
	}
	if err != nil {
		util.ServiceUnavailable(ctx, "Progress could not be saved; the change was rolled back")
		return
	}

	util.Success(ctx, doc.SessionHistory[len(doc.SessionHistory)-1])
}

// @Summary List session history
// @Tags sessions
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/sessions [get]
func (c *SessionController) List(ctx *gin.Context) {
	util.Success(ctx, c.State.Current().SessionHistory)
}
