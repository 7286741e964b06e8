package controller

import (
	"strconv"

	"learnpath_backend/internal/model"
	"learnpath_backend/internal/service"
	"learnpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	State    *service.StateManager
	Progress *service.ProgressService
	Sessions *service.SessionService
	Query    *service.QueryService
}

func NewProgressController(
	state *service.StateManager,
	progress *service.ProgressService,
	sessions *service.SessionService,
	query *service.QueryService,
) *ProgressController {
	return &ProgressController{
		State:    state,
		Progress: progress,
		Sessions: sessions,
		Query:    query,
	}
}

// @Summary Get the progress document
// @Description Returns the learner's full progress document
// @Tags progress
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	util.Success(ctx, c.State.Current())
}

type moduleOverview struct {
	ID                   int                `json:"id"`
	Title                string             `json:"title"`
	Status               model.ModuleStatus `json:"status"`
	CompletionPercentage int                `json:"completionPercentage"`
}

// @Summary Progress overview
// @Description Derived view: overall completion, effective module statuses, neighbors of the current module and last visited location
// @Tags progress
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/progress/overview [get]
func (c *ProgressController) GetOverview(ctx *gin.Context) {
	doc := c.State.Current()

	modules := make([]moduleOverview, 0, len(doc.Modules))
	for _, id := range c.Query.Content.Catalog().ModuleIDs() {
		if module, ok := doc.Modules[id]; ok {
			modules = append(modules, moduleOverview{
				ID:                   id,
				Title:                module.Title,
				Status:               c.Query.ModuleStatus(doc, id),
				CompletionPercentage: module.CompletionPercentage,
			})
		}
	}

	util.Success(ctx, gin.H{
		"overallCompletion": c.Query.OverallCompletion(doc),
		"modules":           modules,
		"nextModule":        c.Query.NextModule(doc, doc.CurrentModuleID),
		"previousModule":    c.Query.PreviousModule(doc.CurrentModuleID),
		"lastVisited":       c.Query.LastVisitedLocation(doc),
		"memoryOnly":        c.State.MemoryOnly(),
	})
}

// @Summary Complete a section
// @Description Marks a section complete and advances module status, unlocking the next module when prerequisites are met
// @Tags progress
// @Produce json
// @Param moduleId path int true "module id"
// @Param sectionId path string true "section id"
// @Success 200 {object} util.Response
// @Router /api/progress/modules/{moduleId}/sections/{sectionId}/complete [post]
func (c *ProgressController) CompleteSection(ctx *gin.Context) {
	moduleID, err := strconv.Atoi(ctx.Param("moduleId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid module id")
		return
	}
	sectionID := ctx.Param("sectionId")

	def := c.Query.Content.Catalog().Module(moduleID)
	if def == nil {
		util.NotFound(ctx, "Module not found")
		return
	}
	if def.Section(sectionID) == nil {
		util.NotFound(ctx, "Section not found")
		return
	}

	doc, err := c.State.Apply(ctx.Request.Context(), func(current *model.ProgressDocument) (*model.ProgressDocument, error) {
		next, _ := c.Progress.CompleteSection(current, moduleID, sectionID)
		return next, nil
	})
	if err != nil {
		util.ServiceUnavailable(ctx, "Progress could not be saved; the change was rolled back")
		return
	}

	util.Success(ctx, doc)
}

// @Summary Visit a module
// @Description Updates the last visited location and records the visit in the open session
// @Tags progress
// @Produce json
// @Param moduleId path int true "module id"
// @Success 200 {object} util.Response
// @Router /api/progress/modules/{moduleId}/visit [post]
func (c *ProgressController) VisitModule(ctx *gin.Context) {
	moduleID, err := strconv.Atoi(ctx.Param("moduleId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid module id")
		return
	}
	if c.Query.Content.Catalog().Module(moduleID) == nil {
		util.NotFound(ctx, "Module not found")
		return
	}

	doc, err := c.State.Apply(ctx.Request.Context(), func(current *model.ProgressDocument) (*model.ProgressDocument, error) {
		return c.Sessions.VisitModule(current, moduleID), nil
	})
	if err != nil {
		util.ServiceUnavailable(ctx, "Progress could not be saved; the change was rolled back")
		return
	}

	util.Success(ctx, doc)
}

type resetRequest struct {
	LearnerVariant model.LearnerVariant `json:"learnerVariant" binding:"omitempty,oneof=A B"`
}

// @Summary Reset all progress
// @Description Destroys the stored document and starts over as on first use
// @Tags progress
// @Accept json
// @Produce json
// @Param body body resetRequest false "optional content track"
// @Success 201 {object} util.Response
// @Router /api/progress/reset [post]
func (c *ProgressController) Reset(ctx *gin.Context) {
	var req resetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && ctx.Request.ContentLength > 0 {
		util.BadRequest(ctx, err.Error())
		return
	}

	variant := req.LearnerVariant
	if variant == "" {
		variant = c.State.Current().LearnerVariant
	}
	if variant == "" {
		variant = model.VariantA
	}

	doc, err := c.State.Reset(ctx.Request.Context(), variant)
	if err != nil {
		util.ServiceUnavailable(ctx, "Stored progress could not be cleared")
		return
	}

	util.Created(ctx, doc)
}

type preferencesRequest struct {
	AnimationSpeed     model.AnimationSpeed `json:"animationSpeed" binding:"required,oneof=slow normal fast"`
	AutoplayAnimations *bool                `json:"autoplayAnimations" binding:"required"`
}

// @Summary Update preferences
// @Tags progress
// @Accept json
// @Produce json
// @Param body body preferencesRequest true "preferences"
// @Success 200 {object} util.Response
// @Router /api/preferences [put]
func (c *ProgressController) UpdatePreferences(ctx *gin.Context) {
	var req preferencesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	prefs := model.UserPreferences{
		AnimationSpeed:     req.AnimationSpeed,
		AutoplayAnimations: *req.AutoplayAnimations,
	}

	doc, err := c.State.Apply(ctx.Request.Context(), func(current *model.ProgressDocument) (*model.ProgressDocument, error) {
		return c.Progress.UpdatePreferences(current, prefs), nil
	})
	if err != nil {
		util.ServiceUnavailable(ctx, "Preferences could not be saved; the change was rolled back")
		return
	}

	util.Success(ctx, doc.Preferences)
}
