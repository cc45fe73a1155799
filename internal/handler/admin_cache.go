package handler

import (
	"net/http"

	"github.com/novakeep/stakevault/internal/skills"
)

// AdminCacheHandler handles admin cache operations
type AdminCacheHandler struct {
	skillsService skills.Service
}

// NewAdminCacheHandler creates a new admin cache handler
func NewAdminCacheHandler(skillsService skills.Service) *AdminCacheHandler {
	return &AdminCacheHandler{
		skillsService: skillsService,
	}
}

// HandleGetCacheStats returns current profile cache statistics
// GET /api/v1/admin/cache/stats
// @Summary Get profile cache stats
// @Description Returns cache hit/miss statistics for monitoring (admin only)
// @Tags admin
// @Produce json
// @Success 200 {object} skills.CacheStats
// @Router /api/v1/admin/cache/stats [get]
func (h *AdminCacheHandler) HandleGetCacheStats(w http.ResponseWriter, r *http.Request) {
	stats := h.skillsService.GetCacheStats()
	respondJSON(w, http.StatusOK, stats)
}
