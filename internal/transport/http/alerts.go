package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/app"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/domain"
)

// AlertReporter is the minimal interface needed to record an unauthorized
// access attempt.
type AlertReporter interface {
	RecordUnauthorizedStatusAttempt(ctx context.Context, in app.UnauthorizedAttempt) (domain.SecurityAlert, int64, error)
}

// HandleReportUnauthorizedAccess returns an HTTP handler for the directly
// reachable unauthorized-access report endpoint.
func HandleReportUnauthorizedAccess(svc AlertReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		start := time.Now()

		var req reportAlertRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.OrderID == "" {
			writeError(w, http.StatusBadRequest, codeMissingRequiredField, "order_id is required")
			return
		}

		alert, elapsedMs, err := svc.RecordUnauthorizedStatusAttempt(r.Context(), app.UnauthorizedAttempt{
			OrderID:  req.OrderID,
			UserID:   req.UserID,
			UserRole: req.UserRole,
			SourceIP: req.SourceIP,
			Reason:   req.Reason,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		// Report the larger of the service-measured and wall-clock elapsed
		// times to absorb timing imprecision.
		processing := time.Since(start).Milliseconds()
		if elapsedMs > processing {
			processing = elapsedMs
		}

		resp := alertResponse{
			AlertID:          alert.ID,
			EventType:        alert.EventType,
			Severity:         string(alert.Severity),
			Description:      alert.Description,
			DetectedAt:       alert.DetectedAt,
			Acknowledged:     alert.Acknowledged,
			ProcessingTimeMs: processing,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type reportAlertRequest struct {
	OrderID  string `json:"order_id"`
	UserID   string `json:"user_id,omitempty"`
	UserRole string `json:"user_role,omitempty"`
	SourceIP string `json:"source_ip,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type alertResponse struct {
	AlertID          string    `json:"alert_id"`
	EventType        string    `json:"event_type"`
	Severity         string    `json:"severity"`
	Description      string    `json:"description"`
	DetectedAt       time.Time `json:"detected_at"`
	Acknowledged     bool      `json:"acknowledged"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
}
