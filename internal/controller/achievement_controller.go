package controller

import (
	"errors"

	"learnpath_backend/internal/content"
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/service"
	"learnpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	State        *service.StateManager
	Achievements *service.AchievementService
	Content      *content.Store
}

func NewAchievementController(state *service.StateManager, achievements *service.AchievementService, contentStore *content.Store) *AchievementController {
	return &AchievementController{
		State:        state,
		Achievements: achievements,
		Content:      contentStore,
	}
}

// @Summary List achievements
// @Description Unlocked achievements plus the full badge catalog
// @Tags achievements
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/achievements [get]
func (c *AchievementController) List(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"unlocked": c.State.Current().Achievements,
		"catalog":  c.Content.Catalog().Achievements,
	})
}

// @Summary Unlock an achievement
// @Description Records an achievement once; repeated unlocks are no-ops
// @Tags achievements
// @Produce json
// @Param id path string true "achievement id"
// @Success 200 {object} util.Response
// @Router /api/achievements/{id}/unlock [post]
func (c *AchievementController) Unlock(ctx *gin.Context) {
	achievementID := ctx.Param("id")

	doc, err := c.State.Apply(ctx.Request.Context(), func(current *model.ProgressDocument) (*model.ProgressDocument, error) {
		return c.Achievements.Unlock(current, achievementID)
	})
	if errors.Is(err, util.ErrUnknownAchievement) {
		util.NotFound(ctx, "Achievement not found")
		return
	}
	if err != nil {
		util.ServiceUnavailable(ctx, "Progress could not be saved; the change was rolled back")
		return
	}

	util.Success(ctx, doc.Achievements)
}
