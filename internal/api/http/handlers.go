package http

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"portfolio-access-backend/internal/domain"
	"portfolio-access-backend/internal/logger"
	"portfolio-access-backend/internal/security"
	"portfolio-access-backend/internal/service"
)

// GateHandler serves the access-request and password-gate endpoints.
type GateHandler struct {
	access   service.AccessService
	email    service.EmailService
	sessions security.SessionManager
}

func NewGateHandler(access service.AccessService, email service.EmailService, sessions security.SessionManager) *GateHandler {
	return &GateHandler{
		access:   access,
		email:    email,
		sessions: sessions,
	}
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Token   string `json:"token,omitempty"`
}

type passwordRequestPayload struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Company     string `json:"company,omitempty"`
	Reason      string `json:"reason"`
	OtherReason string `json:"otherReason,omitempty"`
	Timestamp   int64  `json:"timestamp,omitempty"` // milliseconds since epoch
}

type verifyPasswordPayload struct {
	Password string `json:"password"`
}

type sessionPayload struct {
	Token string `json:"token"`
}

// HandlePasswordRequest accepts a new access request submission.
func (h *GateHandler) HandlePasswordRequest(w http.ResponseWriter, r *http.Request) {
	var payload passwordRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "Invalid request body"})
		return
	}

	sub := &domain.Submission{
		Name:        strings.TrimSpace(payload.Name),
		Email:       strings.TrimSpace(payload.Email),
		Company:     strings.TrimSpace(payload.Company),
		Reason:      strings.TrimSpace(payload.Reason),
		OtherReason: strings.TrimSpace(payload.OtherReason),
		IP:          clientIP(r),
		UserAgent:   r.UserAgent(),
	}
	if payload.Timestamp > 0 {
		sub.Timestamp = time.UnixMilli(payload.Timestamp)
	}

	id, err := h.access.Submit(r.Context(), sub)

	var validationErr *domain.ValidationError
	var mailErr *domain.MailDeliveryError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "Missing required fields"})
	case errors.As(err, &mailErr):
		// The request is stored and approvable; only the owner alert failed.
		logger.Warn("Owner alert failed for stored request", "request_id", id, "error", err)
		writeJSON(w, http.StatusOK, apiResponse{Success: false, Message: "Request received but email delivery failed"})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, apiResponse{Success: false, Message: "Internal server error"})
	default:
		writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Request submitted successfully. You will be notified of the decision."})
	}
}

// HandleApproveRequest approves a pending request from the link in the owner
// notification email and renders an HTML confirmation page.
func (h *GateHandler) HandleApproveRequest(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestId"]

	req, _, err := h.access.Approve(r.Context(), requestID)

	var mailErr *domain.MailDeliveryError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, apiResponse{Success: false, Message: "Request not found"})
	case errors.Is(err, domain.ErrAlreadyProcessed):
		writeJSON(w, http.StatusConflict, apiResponse{Success: false, Message: "Request has already been processed"})
	case errors.As(err, &mailErr):
		renderErrorPage(w, "Failed to send password email. Please try again.")
	case err != nil:
		logger.Error("Approval failed", "request_id", requestID, "error", err)
		renderServerErrorPage(w)
	default:
		renderApprovedPage(w, req.Name, req.Email)
	}
}

// HandleDeclineRequest declines a pending request and renders an HTML
// confirmation page.
func (h *GateHandler) HandleDeclineRequest(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestId"]

	req, err := h.access.Decline(r.Context(), requestID)

	var mailErr *domain.MailDeliveryError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, apiResponse{Success: false, Message: "Request not found"})
	case errors.Is(err, domain.ErrAlreadyProcessed):
		writeJSON(w, http.StatusConflict, apiResponse{Success: false, Message: "Request has already been processed"})
	case errors.As(err, &mailErr):
		renderErrorPage(w, "Failed to send decline email. Please try again.")
	case err != nil:
		logger.Error("Decline failed", "request_id", requestID, "error", err)
		renderServerErrorPage(w)
	default:
		renderDeclinedPage(w, req.Name, req.Email)
	}
}

// HandleVerifyPassword checks a gate password and, when it is valid, issues a
// session token the browser keeps for the rest of the browsing session.
func (h *GateHandler) HandleVerifyPassword(w http.ResponseWriter, r *http.Request) {
	var payload verifyPasswordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "Invalid request body"})
		return
	}
	if payload.Password == "" {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "Password required"})
		return
	}

	result, ownerEmail, err := h.access.VerifyPassword(r.Context(), payload.Password)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiResponse{Success: false, Message: "Internal server error"})
		return
	}

	switch result {
	case domain.VerificationValid:
		token, err := h.sessions.Issue(ownerEmail)
		if err != nil {
			logger.Error("Failed to issue session token", "error", err)
			writeJSON(w, http.StatusInternalServerError, apiResponse{Success: false, Message: "Internal server error"})
			return
		}
		writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Password valid", Token: token})
	case domain.VerificationExpired:
		writeJSON(w, http.StatusOK, apiResponse{Success: false, Message: "Password expired"})
	default:
		writeJSON(w, http.StatusOK, apiResponse{Success: false, Message: "Invalid password"})
	}
}

// HandleSession re-validates a previously issued session token so a page
// reload does not re-spend the temporary password.
func (h *GateHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	var payload sessionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Token == "" {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "Token required"})
		return
	}

	if _, err := h.sessions.Validate(payload.Token); err != nil {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "Session expired"})
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Session valid"})
}

// HandleTestEmail sends a fixed diagnostic email to the owner address.
func (h *GateHandler) HandleTestEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.email.SendTestEmail(r.Context()); err != nil {
		writeJSON(w, http.StatusOK, apiResponse{Success: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Test email sent successfully"})
}

// HandleHealth reports liveness.
func (h *GateHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// clientIP prefers the first X-Forwarded-For hop so the recorded address
// survives a reverse proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
