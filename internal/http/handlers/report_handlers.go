package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/boutiquehq/boutique-pos/internal/repo"
)

// parseDateRange reads from/to query parameters (RFC 3339 or YYYY-MM-DD),
// defaulting to the current day.
func parseDateRange(r *http.Request) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	from := now.Truncate(24 * time.Hour)
	to := from.Add(24 * time.Hour)

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := parseDate(v)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := parseDate(v)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}
	return from, to, true
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

// DashboardHandler godoc
// @Summary Sales and stock dashboard for a date range
// @Description Sales count, revenue (total and by payment method), stock valuation, low-stock count, recent sales
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param from query string false "Range start (RFC 3339 or YYYY-MM-DD), default today"
// @Param to query string false "Range end, exclusive"
// @Success 200 {object} reports.Dashboard
// @Router /reports/dashboard [get]
func DashboardHandler(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseDateRange(r)
	if !ok {
		http.Error(w, "invalid date range", http.StatusBadRequest)
		return
	}

	dashboard, err := aggregator.Dashboard(r.Context(), GetActor(r).TenantID, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

// MovementsHandler godoc
// @Summary Stock movement history
// @Description Filtered by product, reason and date range; newest first
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param product_id query int false "Product ID"
// @Param reason query string false "Movement reason"
// @Param since query string false "Lower bound (RFC 3339 or YYYY-MM-DD)"
// @Param until query string false "Upper bound"
// @Success 200 {object} MovementsSearchResult
// @Router /reports/movements [get]
func MovementsHandler(w http.ResponseWriter, r *http.Request) {
	mf := repo.MovementFilter{Reason: r.URL.Query().Get("reason")}

	if v, err := strconv.Atoi(r.URL.Query().Get("product_id")); err == nil {
		mf.ProductID = &v
	}
	if v := r.URL.Query().Get("since"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			http.Error(w, "invalid since date", http.StatusBadRequest)
			return
		}
		mf.Since = &t
	}
	if v := r.URL.Query().Get("until"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			http.Error(w, "invalid until date", http.StatusBadRequest)
			return
		}
		mf.Until = &t
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		mf.Limit = &v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		mf.Offset = &v
	}

	movements, total, err := aggregator.Movements(r.Context(), GetActor(r).TenantID, mf)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MovementsSearchResult{Data: movements, Meta: Meta{TotalCount: total}})
}

// SessionsHandler godoc
// @Summary Closed cash session history
// @Description Lists CLOSED sessions with discrepancies; sessions whose absolute discrepancy exceeds the tolerance are flagged needs_review
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} reports.SessionReview
// @Router /reports/sessions [get]
func SessionsHandler(w http.ResponseWriter, r *http.Request) {
	reviews, err := aggregator.Sessions(r.Context(), GetActor(r).TenantID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
