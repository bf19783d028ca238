package user

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jkubik/user-admin-api/internal/httputil"
	"github.com/jkubik/user-admin-api/internal/logging"
)

// AdminService is the service surface the handlers need.
type AdminService interface {
	ListUsers(ctx context.Context, callerID uuid.UUID) ([]Projection, error)
	SetBlocked(ctx context.Context, ids []uuid.UUID, blocked bool) error
	DeleteUsers(ctx context.Context, ids []uuid.UUID) error
}

// Handler contains HTTP handlers for the admin user operations
type Handler struct {
	service AdminService
	logger  *logging.Logger
}

func NewHandler(service AdminService, logger *logging.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// BlockRequest represents the bulk block/unblock request body
type BlockRequest struct {
	UserIDs   []uuid.UUID `json:"userIds"`
	IsBlocked bool        `json:"isBlocked"`
}

// DeleteRequest represents the bulk delete request body
type DeleteRequest struct {
	UserIDs []uuid.UUID `json:"userIds"`
}

// MessageResponse represents a simple confirmation response
type MessageResponse struct {
	Message string `json:"message"`
}

// List handles GET /api/users?id={callerId}
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	callerID, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		logger.Warn("list users failed: invalid caller id", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Invalid user ID", httputil.CodeInvalidUserID, http.StatusBadRequest)
		return
	}

	users, err := h.service.ListUsers(r.Context(), callerID)
	if err != nil {
		logger.Error("list users failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server error", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, users, http.StatusOK)
}

// Block handles PUT /api/users/block
func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid block request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if err := h.service.SetBlocked(r.Context(), req.UserIDs, req.IsBlocked); err != nil {
		logger.Error("block update failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server error", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("users block status updated", "count", len(req.UserIDs), "is_blocked", req.IsBlocked)

	httputil.RespondJSON(w, MessageResponse{Message: "Users updated successfully"}, http.StatusOK)
}

// Delete handles DELETE /api/users
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid delete request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteUsers(r.Context(), req.UserIDs); err != nil {
		logger.Error("delete users failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server error", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("users deleted", "count", len(req.UserIDs))

	httputil.RespondJSON(w, MessageResponse{Message: "Users deleted successfully"}, http.StatusOK)
}
