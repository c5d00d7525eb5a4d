package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/app"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/domain"
)

const defaultEmailListLimit = 50

// OutboundEmailStore is the minimal interface needed for the administrative
// email surface.
type OutboundEmailStore interface {
	ListRecent(ctx context.Context, limit int) ([]domain.OutboundEmail, error)
	Clear(ctx context.Context) error
}

// ClientAdminService is the minimal interface needed for the institutional
// client registry endpoints.
type ClientAdminService interface {
	RegisterClient(ctx context.Context, in app.RegisterClientInput) (domain.InstitutionalClient, error)
	ListClients(ctx context.Context) ([]domain.InstitutionalClient, error)
}

// HandleAdminEmails returns an HTTP handler for listing and clearing the
// outbound email record.
func HandleAdminEmails(store OutboundEmailStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			limit := defaultEmailListLimit
			if raw := r.URL.Query().Get("limit"); raw != "" {
				parsed, err := strconv.Atoi(raw)
				if err != nil || parsed <= 0 {
					writeError(w, http.StatusBadRequest, codeInvalidLimit, "limit must be a positive integer")
					return
				}
				limit = parsed
			}

			emails, err := store.ListRecent(r.Context(), limit)
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp := make([]emailResponse, 0, len(emails))
			for _, email := range emails {
				resp = append(resp, emailResponse{
					ID:        email.ID,
					Recipient: email.Recipient,
					Subject:   email.Subject,
					Body:      email.Body,
					CreatedAt: email.CreatedAt,
				})
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodDelete:
			if err := store.Clear(r.Context()); err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// HandleAdminClients returns an HTTP handler for registering and listing
// institutional clients.
func HandleAdminClients(svc ClientAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			clients, err := svc.ListClients(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp := make([]clientResponse, 0, len(clients))
			for _, client := range clients {
				resp = append(resp, clientResponse{
					ID:        client.ID,
					Name:      client.Name,
					CreatedAt: client.CreatedAt,
				})
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodPost:
			var req registerClientRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if req.Name == "" {
				writeError(w, http.StatusBadRequest, codeClientNameRequired, domain.ErrClientNameRequired.Error())
				return
			}

			client, err := svc.RegisterClient(r.Context(), app.RegisterClientInput{Name: req.Name})
			if err != nil {
				switch err {
				case domain.ErrClientNameRequired:
					writeError(w, http.StatusBadRequest, codeClientNameRequired, err.Error())
				default:
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				}
				return
			}

			resp := clientResponse{
				ID:        client.ID,
				Name:      client.Name,
				CreatedAt: client.CreatedAt,
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(resp)
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

type emailResponse struct {
	ID        string    `json:"id"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type registerClientRequest struct {
	Name string `json:"name"`
}

type clientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
