package controller

import (
	"errors"
	"net/http"

	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/service"
	"learnpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Store   repository.KVStore
	Backend string
	State   *service.StateManager
}

func NewHealthController(store repository.KVStore, backend string, state *service.StateManager) *HealthController {
	return &HealthController{Store: store, Backend: backend, State: state}
}

// @Summary Health check
// @Description Service liveness plus storage reachability and degraded-mode flags
// @Tags health
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	storageOK := true
	if _, err := c.Store.Get(ctx.Request.Context(), repository.ProgressKey); err != nil && !errors.Is(err, util.ErrKeyNotFound) {
		storageOK = false
	}

	status := http.StatusOK
	if !storageOK {
		status = http.StatusServiceUnavailable
	}

	ctx.JSON(status, gin.H{
		"status": "ok",
		"storage": gin.H{
			"backend":       c.Backend,
			"reachable":     storageOK,
			"memoryOnly":    c.State.MemoryOnly(),
			"storedInvalid": c.State.StoredInvalid(),
		},
	})
}
