package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/novakeep/stakevault/internal/eventlog"
	"github.com/novakeep/stakevault/internal/logger"
)

// AdminEventsHandler serves audit-trail queries against the ledger event log.
type AdminEventsHandler struct {
	eventlogService eventlog.Service
}

// NewAdminEventsHandler creates a new admin events handler
func NewAdminEventsHandler(eventlogService eventlog.Service) *AdminEventsHandler {
	return &AdminEventsHandler{eventlogService: eventlogService}
}

// EventsResponse contains event log query results
type EventsResponse struct {
	Events []EventLogEntry `json:"events"`
}

// EventLogEntry represents a single audit log entry
type EventLogEntry struct {
	ID        int64       `json:"id"`
	EventType string      `json:"event_type"`
	AccountID *string     `json:"account_id,omitempty"`
	Payload   interface{} `json:"payload"`
	Metadata  interface{} `json:"metadata,omitempty"`
	CreatedAt string      `json:"created_at"`
}

// HandleGetEvents retrieves audit log entries matching the query parameters
// @Summary Query the audit log
// @Description Returns ledger events filtered by account, type, and time window, newest first.
// @Tags admin
// @Produce json
// @Param account_id query string false "Restrict to one account"
// @Param event_type query string false "Restrict to one event type, e.g. stake.deposited"
// @Param since query string false "RFC3339 lower bound"
// @Param until query string false "RFC3339 upper bound"
// @Param limit query int false "Maximum entries (1-1000, default 50)"
// @Success 200 {object} EventsResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/admin/events [get]
// @Security AdminKeyAuth
func (h *AdminEventsHandler) HandleGetEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := eventlog.EventFilter{
		Limit: 50, // default limit
	}

	if accountID := query.Get("account_id"); accountID != "" {
		filter.AccountID = &accountID
	}

	if eventType := query.Get("event_type"); eventType != "" {
		filter.EventType = &eventType
	}

	if sinceStr := query.Get("since"); sinceStr != "" {
		since, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'since' timestamp format (use RFC3339)")
			return
		}
		filter.Since = &since
	}

	if untilStr := query.Get("until"); untilStr != "" {
		until, err := time.Parse(time.RFC3339, untilStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'until' timestamp format (use RFC3339)")
			return
		}
		filter.Until = &until
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > 1000 {
			respondError(w, http.StatusBadRequest, "Invalid 'limit' (must be 1-1000)")
			return
		}
		filter.Limit = limit
	}

	events, err := h.eventlogService.GetEvents(r.Context(), filter)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to query audit log", "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgGetEventsFailed)
		return
	}

	entries := make([]EventLogEntry, len(events))
	for i, evt := range events {
		entries[i] = EventLogEntry{
			ID:        evt.ID,
			EventType: evt.EventType,
			AccountID: evt.AccountID,
			Payload:   evt.Payload,
			Metadata:  evt.Metadata,
			CreatedAt: evt.CreatedAt.Format(time.RFC3339),
		}
	}

	respondJSON(w, http.StatusOK, EventsResponse{Events: entries})
}
