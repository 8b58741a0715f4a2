package web

import (
	"net/http"

	"github.com/andikar-ai/gateway/domain/account"
)

// TextRequest is the body for the humanize and detect endpoints.
type TextRequest struct {
	InputText string `json:"input_text"`
	MaxWords  int    `json:"max_words,omitempty"`
}

// Humanize runs the caller's text through the humanizer service.
//
//	@Summary		Humanize text
//	@Description	Rewrites AI-generated text. Rate limited; consumes the plan's word budget.
//	@Tags			Text
//	@Accept			json
//	@Produce		json
//	@Param			request	body		TextRequest	true	"Text to rewrite"
//	@Success		200		{object}	app.HumanizeResult
//	@Failure		402		{object}	jsonapi.Document	"Plan payment required"
//	@Failure		403		{object}	jsonapi.Document	"Word limit exceeded or account inactive"
//	@Failure		429		{object}	jsonapi.Document	"Rate limit exceeded"
//	@Failure		503		{object}	jsonapi.Document	"Humanizer unavailable"
//	@Security		BearerAuth
//	@Router			/api/humanize [post]
func (h *Handler) Humanize(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	req, ok := h.textRequest(w, r)
	if !ok {
		return
	}

	result, err := h.text.Humanize(r.Context(), user.ID, req.InputText, requestMeta(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Detect scores the caller's text for AI authorship.
//
//	@Summary		Detect AI content
//	@Description	Scores text 0-100 for likely AI authorship. Uses the external detector when configured, the local heuristic otherwise.
//	@Tags			Text
//	@Accept			json
//	@Produce		json
//	@Param			request	body		TextRequest	true	"Text to score"
//	@Success		200		{object}	app.DetectResult
//	@Failure		403		{object}	jsonapi.Document	"Account inactive"
//	@Failure		429		{object}	jsonapi.Document	"Rate limit exceeded"
//	@Security		BearerAuth
//	@Router			/api/detect [post]
func (h *Handler) Detect(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	req, ok := h.textRequest(w, r)
	if !ok {
		return
	}

	result, err := h.text.Detect(r.Context(), user.ID, req.InputText, requestMeta(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) textRequest(w http.ResponseWriter, r *http.Request) (TextRequest, bool) {
	var req TextRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return TextRequest{}, false
	}
	if req.InputText == "" {
		writeBadRequest(w, "input_text is required")
		return TextRequest{}, false
	}
	if req.MaxWords > 0 && account.WordCount(req.InputText) > req.MaxWords {
		writeBadRequest(w, "input_text exceeds max_words")
		return TextRequest{}, false
	}
	return req, true
}
