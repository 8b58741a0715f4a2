package web

import (
	"net/http"
)

// AdminUsers lists registered accounts.
//
//	@Summary		List users
//	@Tags			Admin
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum rows (default 50)"
//	@Param			offset	query		int	false	"Rows to skip"
//	@Success		200		{array}		UserResponse
//	@Failure		403		{object}	jsonapi.Document
//	@Security		BearerAuth
//	@Router			/admin/users [get]
func (h *Handler) AdminUsers(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := 0
	if v := queryInt(r, "offset", 0); v > 0 {
		offset = v
	}

	users, err := h.users.List(r.Context(), limit, offset)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, h.userResponse(r, u))
	}
	writeJSON(w, http.StatusOK, out)
}

// AdminTransactions lists all payment transactions.
//
//	@Summary		List all transactions
//	@Tags			Admin
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum rows (default 50)"
//	@Param			offset	query		int	false	"Rows to skip"
//	@Success		200		{array}		TransactionResponse
//	@Failure		403		{object}	jsonapi.Document
//	@Security		BearerAuth
//	@Router			/admin/transactions [get]
func (h *Handler) AdminTransactions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := 0
	if v := queryInt(r, "offset", 0); v > 0 {
		offset = v
	}

	txs, err := h.payments.AllTransactions(r.Context(), limit, offset)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

// AdminStats returns the dashboard summary.
//
//	@Summary		Dashboard statistics
//	@Description	Totals, per-endpoint request counts, and the last 30 days of usage.
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	app.AdminStats
//	@Failure		403	{object}	jsonapi.Document
//	@Security		BearerAuth
//	@Router			/admin/stats [get]
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	overview, err := h.stats.Overview(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
