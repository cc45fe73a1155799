package handler

import (
	"net/http"
	"strings"

	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/logger"
	"github.com/novakeep/stakevault/internal/skills"
)

// SkillsHandler exposes the skill registry to the external authority.
type SkillsHandler struct {
	service skills.Service
}

// NewSkillsHandler creates a new skills handler
func NewSkillsHandler(service skills.Service) *SkillsHandler {
	return &SkillsHandler{service: service}
}

// ActivateSkillRequest represents a request to activate a skill grant on a token.
type ActivateSkillRequest struct {
	AccountID   string `json:"account_id" validate:"required,max=64,excludesall=!@#?"`
	TokenID     string `json:"token_id" validate:"required,max=64"`
	SkillType   string `json:"skill_type" validate:"required,skilltype"`
	MagnitudeBP int64  `json:"magnitude_bp" validate:"required,gt=0"`
}

func (h *SkillsHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	var req ActivateSkillRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Activate skill"); err != nil {
		return
	}

	log := logger.FromContext(r.Context())
	LogRequestFields(log, "account_id", req.AccountID, "token_id", req.TokenID, "skill_type", req.SkillType)

	skillType := domain.SkillType(strings.ToLower(req.SkillType))
	profile, err := h.service.ApplyGrant(r.Context(), req.AccountID, req.TokenID, skillType, req.MagnitudeBP)
	if err != nil {
		respondServiceError(w, r, "Activate skill", err)
		return
	}

	respondJSON(w, http.StatusCreated, profile)
}

// DeactivateSkillRequest represents a request to deactivate a token's grant.
type DeactivateSkillRequest struct {
	AccountID string `json:"account_id" validate:"required,max=64,excludesall=!@#?"`
	TokenID   string `json:"token_id" validate:"required,max=64"`
}

func (h *SkillsHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	var req DeactivateSkillRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Deactivate skill"); err != nil {
		return
	}

	profile, err := h.service.RevokeGrant(r.Context(), req.AccountID, req.TokenID)
	if err != nil {
		respondServiceError(w, r, "Deactivate skill", err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{
		Message: MsgSkillDeactivated,
		Data:    profile,
	})
}

// SetRarityRequest represents a request to update a token's rarity tier.
type SetRarityRequest struct {
	TokenID string `json:"token_id" validate:"required,max=64"`
	Rarity  string `json:"rarity" validate:"required,rarity"`
}

// HandleSetRarity updates a token's rarity and recomputes every profile
// holding an active grant on that token.
func (h *SkillsHandler) HandleSetRarity(w http.ResponseWriter, r *http.Request) {
	var req SetRarityRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set rarity"); err != nil {
		return
	}

	rarity := domain.Rarity(strings.ToLower(req.Rarity))
	if err := h.service.SetTokenRarity(r.Context(), req.TokenID, rarity); err != nil {
		respondServiceError(w, r, "Set rarity", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgRarityUpdated})
}

// ProfileResponse pairs a derived profile with the grants behind it.
type ProfileResponse struct {
	Profile *domain.SkillProfile `json:"profile"`
	Grants  []domain.SkillGrant  `json:"grants"`
}

func (h *SkillsHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := GetQueryParam(r, w, "account_id")
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), accountID)
	if err != nil {
		respondServiceError(w, r, "Get profile", err)
		return
	}

	grants, err := h.service.GetActiveGrants(r.Context(), accountID)
	if err != nil {
		respondServiceError(w, r, "Get profile", err)
		return
	}

	respondJSON(w, http.StatusOK, ProfileResponse{
		Profile: profile,
		Grants:  grants,
	})
}
