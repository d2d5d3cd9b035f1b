package handlers

import (
	"net/http"

	"destek-backend/application/services"
	"destek-backend/pkg/common"

	"go.uber.org/zap"
)

// CacheHandler exposes embedding cache accounting
type CacheHandler struct {
	cache  *services.EmbeddingCache
	logger *zap.Logger
}

// NewCacheHandler creates a cache handler
func NewCacheHandler(cache *services.EmbeddingCache, logger *zap.Logger) *CacheHandler {
	return &CacheHandler{
		cache:  cache,
		logger: logger,
	}
}

// Stats handles GET /cache/stats
func (h *CacheHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.cache.Stats(r.Context())
	if err != nil {
		h.logger.Warn("cache stats failed", zap.Error(err))
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, stats)
}

// Clear handles POST /admin/cache/clear
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	removed, err := h.cache.ClearCache(r.Context())
	if err != nil {
		h.logger.Error("cache clear failed", zap.Error(err))
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]int{"removed": removed})
}
