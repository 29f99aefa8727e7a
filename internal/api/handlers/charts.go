package handlers

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/dashboard"
	"github.com/dvloznov/finance-dashboard/internal/notion"
	"github.com/dvloznov/finance-dashboard/internal/pipeline"
)

// ChartsHandler serves the aggregated chart data consumed by the dashboard
// front-end.
type ChartsHandler struct {
	svc *dashboard.Service
	log zerolog.Logger
}

// NewChartsHandler creates the charts handler.
func NewChartsHandler(svc *dashboard.Service, log zerolog.Logger) *ChartsHandler {
	return &ChartsHandler{svc: svc, log: log}
}

// seriesPayload is one named series in a chart response. Decimal values are
// converted to float64 at the presentation boundary only.
type seriesPayload struct {
	Label   string    `json:"label"`
	Buckets []string  `json:"buckets"`
	Values  []float64 `json:"values"`
}

type chartResponse struct {
	Title  string          `json:"title"`
	Series []seriesPayload `json:"series"`
}

type snapshotMeta struct {
	RefreshID        string    `json:"refresh_id"`
	FetchedAt        time.Time `json:"fetched_at"`
	TransactionCount int       `json:"transaction_count"`
	Skipped          int       `json:"skipped"`
}

// MonthlyFlow handles GET /api/charts/monthly-flow
func (h *ChartsHandler) MonthlyFlow(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	series := make([]seriesPayload, 0, len(snap.MonthlyFlow))
	for _, flow := range flowOrder(snap.MonthlyFlow) {
		series = append(series, toPayload(flow, snap.MonthlyFlow[flow]))
	}
	series = append(series, toPayload("Net", snap.MonthlyTotals))

	middleware.WriteJSON(w, http.StatusOK, chartResponse{
		Title:  "Monthly Cash Flow",
		Series: series,
	})
}

// MonthlyCounts handles GET /api/charts/monthly-counts
func (h *ChartsHandler) MonthlyCounts(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, chartResponse{
		Title:  "Transactions per Month",
		Series: []seriesPayload{toPayload("Transactions", snap.MonthlyCounts)},
	})
}

// Categories handles GET /api/charts/categories?level=main|sub
func (h *ChartsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	grouped := snap.MonthlyByMain
	title := "Monthly Totals by Main Category"
	if r.URL.Query().Get("level") == "sub" {
		grouped = snap.MonthlyBySub
		title = "Monthly Totals by Sub-Category"
	}

	labels := make([]string, 0, len(grouped))
	for label := range grouped {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	series := make([]seriesPayload, 0, len(labels))
	for _, label := range labels {
		series = append(series, toPayload(label, grouped[label]))
	}

	middleware.WriteJSON(w, http.StatusOK, chartResponse{Title: title, Series: series})
}

// RunningBalance handles GET /api/charts/running-balance
func (h *ChartsHandler) RunningBalance(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, chartResponse{
		Title:  "Running Balance",
		Series: []seriesPayload{toPayload("Balance", snap.RunningBalance)},
	})
}

// Savings handles GET /api/charts/savings
func (h *ChartsHandler) Savings(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, chartResponse{
		Title:  "Transfers to Savings",
		Series: []seriesPayload{toPayload("Savings", snap.Savings)},
	})
}

// Snapshot handles GET /api/snapshot
func (h *ChartsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, snapshotMeta{
		RefreshID:        snap.RefreshID,
		FetchedAt:        snap.FetchedAt,
		TransactionCount: len(snap.Transactions),
		Skipped:          snap.Skipped,
	})
}

// Refresh handles POST /api/refresh
func (h *ChartsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Refresh(r.Context())
	if err != nil {
		h.writeRefreshError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, snapshotMeta{
		RefreshID:        snap.RefreshID,
		FetchedAt:        snap.FetchedAt,
		TransactionCount: len(snap.Transactions),
		Skipped:          snap.Skipped,
	})
}

// snapshot loads the current snapshot, refreshing lazily on first access.
// On failure it writes the error response and returns ok=false.
func (h *ChartsHandler) snapshot(w http.ResponseWriter, r *http.Request) (*dashboard.Snapshot, bool) {
	snap, err := h.svc.CurrentOrRefresh(r.Context())
	if err != nil {
		h.writeRefreshError(w, err)
		return nil, false
	}
	return snap, true
}

func (h *ChartsHandler) writeRefreshError(w http.ResponseWriter, err error) {
	h.log.Error().Err(err).Msg("Refresh failed")

	var schemaErr *notion.SchemaError
	switch {
	case errors.Is(err, notion.ErrSourceUnavailable):
		middleware.WriteError(w, http.StatusServiceUnavailable, "Notion is unavailable")
	case errors.As(err, &schemaErr):
		middleware.WriteError(w, http.StatusInternalServerError, schemaErr.Error())
	default:
		middleware.WriteError(w, http.StatusInternalServerError, "Refresh failed")
	}
}

func toPayload(label string, series pipeline.Series) seriesPayload {
	p := seriesPayload{
		Label:   label,
		Buckets: make([]string, 0, len(series)),
		Values:  make([]float64, 0, len(series)),
	}
	for _, point := range series {
		p.Buckets = append(p.Buckets, point.Bucket)
		p.Values = append(p.Values, point.Value.InexactFloat64())
	}
	return p
}

// flowOrder returns the cash flow types present, in a fixed display order
// with any unknown types sorted after the known ones.
func flowOrder(grouped map[string]pipeline.Series) []string {
	known := []string{
		pipeline.FlowRevenue,
		pipeline.FlowExpense,
		pipeline.FlowTransferToSavings,
		pipeline.FlowBankTransferIn,
		pipeline.FlowBankTransferOut,
	}
	order := make([]string, 0, len(grouped))
	seen := make(map[string]bool, len(grouped))
	for _, flow := range known {
		if _, ok := grouped[flow]; ok {
			order = append(order, flow)
			seen[flow] = true
		}
	}
	var rest []string
	for flow := range grouped {
		if !seen[flow] {
			rest = append(rest, flow)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}
