package handler

import (
	"net/http"

	"github.com/Dan9191/expense-service/internal/models"
)

// CreateExpense records a new entry
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var e models.Expense
	if err := decode(r, &e); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	created, err := h.svc.CreateExpense(r.Context(), userID(r), &e)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListExpenses pages through the caller's entries
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	var f models.ExpenseFilter
	var err error
	if f.Page, err = queryInt(r, "page", 0); err != nil {
		badRequest(w, "invalid page")
		return
	}
	if f.Size, err = queryInt(r, "size", 0); err != nil {
		badRequest(w, "invalid size")
		return
	}
	from, err := queryDay(r, "from")
	if err != nil {
		badRequest(w, "invalid from date")
		return
	}
	to, err := queryDay(r, "to")
	if err != nil {
		badRequest(w, "invalid to date")
		return
	}
	if !from.IsZero() {
		f.From = &from
	}
	if !to.IsZero() {
		f.To = &to
	}

	page, err := h.svc.ListExpenses(r.Context(), userID(r), f)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetExpense returns one entry
func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	e, err := h.svc.Expense(r.Context(), userID(r), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// UpdateExpense replaces one entry
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	var e models.Expense
	if err := decode(r, &e); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	updated, err := h.svc.UpdateExpense(r.Context(), userID(r), id, &e)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteExpense removes one entry
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	if err := h.svc.DeleteExpense(r.Context(), userID(r), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
