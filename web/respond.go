package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/andikar-ai/gateway/app"
	"github.com/andikar-ai/gateway/domain/account"
	"github.com/andikar-ai/gateway/pkg/jsonapi"
	"github.com/andikar-ai/gateway/ports"
)

const maxBodySize = 10 << 20 // 10MB

// decodeJSON reads a request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dst)
}

// writeJSON writes a plain JSON data response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeBadRequest(w http.ResponseWriter, detail string) {
	jsonapi.WriteError(w, jsonapi.ErrBadRequest(detail))
}

func writeUnauthorized(w http.ResponseWriter, code, detail string) {
	jsonapi.WriteError(w, jsonapi.ErrUnauthorized(code, detail))
}

func writeForbidden(w http.ResponseWriter, code, detail string) {
	jsonapi.WriteError(w, jsonapi.ErrForbidden(code, detail))
}

// writeServiceError maps service errors onto HTTP responses.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var access *app.AccessError
	switch {
	case errors.Is(err, app.ErrRateLimited):
		jsonapi.WriteError(w, jsonapi.ErrRateLimited("Too many requests, try again shortly"))
	case errors.Is(err, app.ErrServiceUnavailable):
		jsonapi.WriteError(w, jsonapi.ErrUnavailable("The text service is temporarily unavailable"))
	case errors.Is(err, app.ErrInvalidCredentials):
		jsonapi.WriteError(w, jsonapi.ErrUnauthorized("invalid_credentials", "Incorrect username or password"))
	case errors.Is(err, app.ErrInvalidToken):
		jsonapi.WriteError(w, jsonapi.ErrUnauthorized("invalid_token", "The provided token is invalid or expired"))
	case errors.Is(err, app.ErrUserExists):
		jsonapi.WriteError(w, jsonapi.ErrConflict("user_exists", "Username or email is already registered"))
	case errors.Is(err, ports.ErrNotFound):
		jsonapi.WriteError(w, jsonapi.ErrNotFound("The requested resource was not found"))
	case errors.As(err, &access):
		h.writeAccessError(w, access)
	default:
		h.logger.Error().Err(err).Msg("request failed")
		jsonapi.WriteError(w, jsonapi.ErrInternal(""))
	}
}

func (h *Handler) writeAccessError(w http.ResponseWriter, access *app.AccessError) {
	switch access.Reason {
	case account.ReasonPaymentRequired:
		jsonapi.WriteError(w, jsonapi.ErrPaymentRequired("Your plan requires payment before use"))
	case account.ReasonWordLimit:
		writeForbidden(w, access.Reason, "Plan word limit exceeded")
	case account.ReasonInactive:
		writeForbidden(w, access.Reason, "This account is deactivated")
	default:
		writeForbidden(w, access.Reason, "Access denied")
	}
}
