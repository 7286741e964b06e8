package controller

import (
	"learnpath_backend/internal/content"
	"learnpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	Content *content.Store
}

func NewContentController(contentStore *content.Store) *ContentController {
	return &ContentController{Content: contentStore}
}

// @Summary Curriculum catalog
// @Description The static module and section metadata the UI renders from
// @Tags content
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/content/modules [get]
func (c *ContentController) GetModules(ctx *gin.Context) {
	util.Success(ctx, c.Content.Catalog().Modules)
}
