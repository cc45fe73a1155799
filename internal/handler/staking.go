package handler

import (
	"net/http"
	"strings"

	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/logger"
	"github.com/novakeep/stakevault/internal/staking"
)

// StakingHandler exposes the custody operations over HTTP.
type StakingHandler struct {
	service staking.Service
}

// NewStakingHandler creates a new staking handler
func NewStakingHandler(service staking.Service) *StakingHandler {
	return &StakingHandler{service: service}
}

// DepositRequest represents a request to stake funds under a lock tier.
// LockTier is in days and has no required tag: 0 is the flexible tier.
type DepositRequest struct {
	AccountID string `json:"account_id" validate:"required,max=64,excludesall=!@#?"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	LockTier  int    `json:"lock_tier" validate:"locktier"`
}

func (h *StakingHandler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	var req DepositRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Deposit"); err != nil {
		return
	}

	log := logger.FromContext(r.Context())
	LogRequestFields(log, "account_id", req.AccountID, "amount", req.Amount, "lock_tier", req.LockTier)

	result, err := h.service.Deposit(r.Context(), req.AccountID, domain.LockTier(req.LockTier), req.Amount)
	if err != nil {
		respondServiceError(w, r, "Deposit", err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// AccountRequest is the shared body for operations that act on a whole account.
type AccountRequest struct {
	AccountID string `json:"account_id" validate:"required,max=64,excludesall=!@#?"`
}

func (h *StakingHandler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req AccountRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Withdraw"); err != nil {
		return
	}

	result, err := h.service.Withdraw(r.Context(), req.AccountID)
	if err != nil {
		respondServiceError(w, r, "Withdraw", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *StakingHandler) HandleWithdrawAll(w http.ResponseWriter, r *http.Request) {
	var req AccountRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Withdraw all"); err != nil {
		return
	}

	result, err := h.service.WithdrawAll(r.Context(), req.AccountID)
	if err != nil {
		respondServiceError(w, r, "Withdraw all", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *StakingHandler) HandleCompound(w http.ResponseWriter, r *http.Request) {
	var req AccountRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Compound"); err != nil {
		return
	}

	result, err := h.service.Compound(r.Context(), req.AccountID)
	if err != nil {
		respondServiceError(w, r, "Compound", err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// RewardsResponse reports an account's pending reward figure.
type RewardsResponse struct {
	AccountID string `json:"account_id"`
	Pending   int64  `json:"pending"`
	Boosted   bool   `json:"boosted"`
}

// HandleGetRewards returns the pending reward for an account. With
// boosted=true the figure includes the account's skill profile; the raw
// figure is what the base rate alone has earned.
func (h *StakingHandler) HandleGetRewards(w http.ResponseWriter, r *http.Request) {
	accountID, ok := GetQueryParam(r, w, "account_id")
	if !ok {
		return
	}

	boosted := strings.EqualFold(GetOptionalQueryParam(r, "boosted", "true"), "true")

	var pending int64
	var err error
	if boosted {
		pending, err = h.service.BoostedRewards(r.Context(), accountID)
	} else {
		pending, err = h.service.Rewards(r.Context(), accountID)
	}
	if err != nil {
		respondServiceError(w, r, "Get rewards", err)
		return
	}

	respondJSON(w, http.StatusOK, RewardsResponse{
		AccountID: accountID,
		Pending:   pending,
		Boosted:   boosted,
	})
}

func (h *StakingHandler) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := GetQueryParam(r, w, "account_id")
	if !ok {
		return
	}

	summary, err := h.service.AccountView(r.Context(), accountID)
	if err != nil {
		respondServiceError(w, r, "Get account", err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// HandleGetPool returns pool aggregates and the ledger lifecycle state
// @Summary Pool status
// @Description Returns total custody balance, reward reserve, account count, and lifecycle state
// @Tags staking
// @Produce json
// @Success 200 {object} domain.PoolView
// @Router /api/v1/pool [get]
func (h *StakingHandler) HandleGetPool(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.PoolView(r.Context())
	if err != nil {
		respondServiceError(w, r, "Get pool", err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}
