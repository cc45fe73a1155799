package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novakeep/stakevault/internal/skills"
)

func TestAdminCacheHandler_GetCacheStats(t *testing.T) {
	mockSvc := &MockSkillsService{}
	mockSvc.On("GetCacheStats").Return(skills.CacheStats{
		Hits:   120,
		Misses: 8,
		Size:   42,
	})

	h := NewAdminCacheHandler(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/cache/stats", nil)
	w := httptest.NewRecorder()

	h.HandleGetCacheStats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stats skills.CacheStats
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(120), stats.Hits)
	assert.Equal(t, int64(8), stats.Misses)
	assert.Equal(t, 42, stats.Size)
	mockSvc.AssertExpectations(t)
}
