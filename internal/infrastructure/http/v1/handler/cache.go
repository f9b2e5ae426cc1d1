package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CacheStats(c *gin.Context) {
	h.RespondWithJSON(c, http.StatusOK, "cache stats", h.promptUseCase.CacheStats())
}

func (h *Handler) InvalidateCache(c *gin.Context) {
	loggerFrom(c).Info("cache invalidation requested", "ip", c.ClientIP())

	h.promptUseCase.InvalidateCache()

	h.RespondWithJSON(c, http.StatusOK, "cache invalidated", nil)
}
