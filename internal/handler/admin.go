package handler

import (
	"net/http"

	"github.com/novakeep/stakevault/internal/logger"
	"github.com/novakeep/stakevault/internal/staking"
)

// AdminHandler exposes operator-only lifecycle and treasury controls.
type AdminHandler struct {
	service staking.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service staking.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// HandlePause halts deposits, withdrawals, and compounds
// @Summary Pause the ledger
// @Description Suspends all custody mutations until unpaused. Idempotent.
// @Tags admin
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /api/v1/admin/pause [post]
// @Security AdminKeyAuth
func (h *AdminHandler) HandlePause(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Info("Pausing ledger")

	if err := h.service.Pause(r.Context()); err != nil {
		respondServiceError(w, r, "Pause", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgLedgerPausedSuccess})
}

// HandleUnpause resumes custody operations
// @Summary Unpause the ledger
// @Description Lifts a pause. Idempotent.
// @Tags admin
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /api/v1/admin/unpause [post]
// @Security AdminKeyAuth
func (h *AdminHandler) HandleUnpause(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Info("Unpausing ledger")

	if err := h.service.Unpause(r.Context()); err != nil {
		respondServiceError(w, r, "Unpause", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgLedgerUnpausedSuccess})
}

// SetTreasuryRequest carries the replacement treasury address.
type SetTreasuryRequest struct {
	Address string `json:"address" validate:"required,max=128"`
}

// HandleSetTreasury redirects future commissions to a new treasury address
func (h *AdminHandler) HandleSetTreasury(w http.ResponseWriter, r *http.Request) {
	var req SetTreasuryRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set treasury"); err != nil {
		return
	}

	log := logger.FromContext(r.Context())
	log.Info("Updating treasury address", "address", req.Address)

	if err := h.service.SetTreasury(r.Context(), req.Address); err != nil {
		respondServiceError(w, r, "Set treasury", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgTreasuryUpdated})
}

// MigrateRequest names the successor ledger.
type MigrateRequest struct {
	Target string `json:"target" validate:"required,max=128"`
}

// HandleMigrate points the ledger at its successor. One-way: once set, only
// withdrawAll remains available to depositors.
func (h *AdminHandler) HandleMigrate(w http.ResponseWriter, r *http.Request) {
	var req MigrateRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Migrate"); err != nil {
		return
	}

	log := logger.FromContext(r.Context())
	log.Info("Initiating ledger migration", "target", req.Target)

	if err := h.service.SetMigrationTarget(r.Context(), req.Target); err != nil {
		respondServiceError(w, r, "Migrate", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgMigrationInitiated})
}

// FundReserveRequest carries the amount to add to the reward reserve.
type FundReserveRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// HandleFundReserve tops up the reward reserve that pays out yield
// @Summary Fund the reward reserve
// @Description Adds funds to the reserve backing reward payouts. Returns updated pool stats.
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} domain.PoolStats
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/admin/reserve/fund [post]
// @Security AdminKeyAuth
func (h *AdminHandler) HandleFundReserve(w http.ResponseWriter, r *http.Request) {
	var req FundReserveRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Fund reserve"); err != nil {
		return
	}

	log := logger.FromContext(r.Context())
	log.Info("Funding reward reserve", "amount", req.Amount)

	stats, err := h.service.FundReserve(r.Context(), req.Amount)
	if err != nil {
		respondServiceError(w, r, "Fund reserve", err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{
		Message: MsgReserveFunded,
		Data:    stats,
	})
}
