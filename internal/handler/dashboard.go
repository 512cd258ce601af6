package handler

import (
	"net/http"
	"time"

	"github.com/Dan9191/expense-service/internal/forecast"
	"github.com/Dan9191/expense-service/internal/service"
	"github.com/shopspring/decimal"
)

// Summary returns current month and year totals
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summary(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// MonthlyDetail returns statistics for ?year&month, defaulting to the current month
func (h *Handler) MonthlyDetail(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", 0)
	if err != nil {
		badRequest(w, "invalid year")
		return
	}
	month, err := queryInt(r, "month", 0)
	if err != nil {
		badRequest(w, "invalid month")
		return
	}
	d, err := h.svc.MonthlyDetail(r.Context(), userID(r), year, time.Month(month))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// YearlyDetail returns statistics for ?year, defaulting to the current year
func (h *Handler) YearlyDetail(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", 0)
	if err != nil {
		badRequest(w, "invalid year")
		return
	}
	d, err := h.svc.YearlyDetail(r.Context(), userID(r), year)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// DailySeries returns gap-filled daily expense totals for ?from&to, defaulting
// to the last 30 days
func (h *Handler) DailySeries(w http.ResponseWriter, r *http.Request) {
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
	points, err := h.svc.DailySeries(r.Context(), userID(r), from, to)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// Forecast projects daily expenses from ?from&to&method&period
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	var req service.ForecastRequest
	var err error
	if req.From, err = queryDay(r, "from"); err != nil {
		badRequest(w, "invalid from date")
		return
	}
	if req.To, err = queryDay(r, "to"); err != nil {
		badRequest(w, "invalid to date")
		return
	}
	if req.Period, err = queryInt(r, "period", 0); err != nil {
		badRequest(w, "invalid period")
		return
	}
	if name := r.URL.Query().Get("method"); name != "" {
		if req.Method, err = forecast.ParseMethod(name); err != nil {
			h.writeError(w, err)
			return
		}
	}

	res, err := h.svc.Forecast(r.Context(), userID(r), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Budget projects the current month against the caller's budget
func (h *Handler) Budget(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.ProjectMonth(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ExchangeRate converts ?amount from one currency to another
func (h *Handler) ExchangeRate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amount := decimal.NewFromInt(1)
	if v := q.Get("amount"); v != "" {
		var err error
		if amount, err = decimal.NewFromString(v); err != nil {
			badRequest(w, "invalid amount")
			return
		}
	}
	from, to := q.Get("from"), q.Get("to")
	converted, err := h.svc.ConvertAmount(r.Context(), amount, from, to)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"amount":    amount,
		"from":      from,
		"to":        to,
		"converted": converted.Round(2),
	})
}
