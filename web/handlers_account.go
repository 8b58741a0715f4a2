package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/andikar-ai/gateway/app"
	"github.com/andikar-ai/gateway/ports"
)

// TokenResponse is the login response body.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type" example:"bearer"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// RegisterRequest is the account creation body.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	PlanID   string `json:"plan_id"`
}

// UpdateProfileRequest carries the mutable profile fields.
type UpdateProfileRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// UserResponse is the account representation returned by the API.
type UserResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	PlanID         string    `json:"plan_id"`
	PlanName       string    `json:"plan_name,omitempty"`
	WordsUsed      int       `json:"words_used"`
	WordsRemaining int       `json:"words_remaining"`
	PaymentStatus  string    `json:"payment_status"`
	IsActive       bool      `json:"is_active"`
	JoinedAt       time.Time `json:"joined_at"`
}

// Token authenticates a user and issues a JWT.
//
//	@Summary		Log in
//	@Description	Exchanges username and password for a bearer token. Accepts JSON or OAuth2-style form fields.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	TokenResponse
//	@Failure		401	{object}	jsonapi.Document	"Invalid credentials"
//	@Router			/token [post]
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	username, password, ok := credentials(r)
	if !ok {
		writeBadRequest(w, "username and password are required")
		return
	}

	user, err := h.account.Authenticate(r.Context(), username, password)
	if err != nil {
		h.countAuthFailure("invalid_credentials")
		h.writeServiceError(w, err)
		return
	}

	token, expires, err := h.account.IssueToken(user)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expires,
	})
}

// credentials reads login fields from a form or a JSON body.
func credentials(r *http.Request) (username, password string, ok bool) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return "", "", false
		}
		username = r.PostFormValue("username")
		password = r.PostFormValue("password")
	} else {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := decodeJSON(r, &body); err != nil {
			return "", "", false
		}
		username = body.Username
		password = body.Password
	}
	return username, password, username != "" && password != ""
}

// Register creates a new account.
//
//	@Summary		Register an account
//	@Description	Creates a user on the requested plan, defaulting to the free tier.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest	true	"Account details"
//	@Success		201		{object}	UserResponse
//	@Failure		409		{object}	jsonapi.Document	"Username or email taken"
//	@Router			/users/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	user, err := h.account.Register(r.Context(), app.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		PlanID:   req.PlanID,
	})
	if err != nil {
		if errors.Is(err, app.ErrUserExists) {
			h.writeServiceError(w, err)
			return
		}
		writeBadRequest(w, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, h.userResponse(r, user))
}

// Me returns the authenticated account.
//
//	@Summary		Current account
//	@Description	Returns the caller's profile, plan, and remaining word budget.
//	@Tags			Account
//	@Produce		json
//	@Success		200	{object}	UserResponse
//	@Failure		401	{object}	jsonapi.Document
//	@Security		BearerAuth
//	@Router			/users/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	writeJSON(w, http.StatusOK, h.userResponse(r, user))
}

// UpdateMe modifies the authenticated account's profile.
//
//	@Summary		Update profile
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		UpdateProfileRequest	true	"Fields to change"
//	@Success		200		{object}	UserResponse
//	@Failure		409		{object}	jsonapi.Document	"Email taken"
//	@Security		BearerAuth
//	@Router			/users/me [put]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	var req UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	updated, err := h.account.UpdateProfile(r.Context(), user.ID, app.UpdateProfileInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.userResponse(r, updated))
}

func (h *Handler) userResponse(r *http.Request, user ports.User) UserResponse {
	resp := UserResponse{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		FullName:      user.FullName,
		PlanID:        user.PlanID,
		WordsUsed:     user.WordsUsed,
		PaymentStatus: user.PaymentStatus,
		IsActive:      user.IsActive,
		JoinedAt:      user.JoinedAt,
	}
	if p, err := h.plans.Get(r.Context(), user.PlanID); err == nil {
		resp.PlanName = p.Name
		resp.WordsRemaining = p.WordsRemaining(user.WordsUsed)
	}
	return resp
}
