package dashboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/finance-dashboard/internal/pipeline"
)

// Snapshot is the immutable result of one refresh cycle: the normalized
// transactions plus every chart series precomputed from them. A new snapshot
// replaces the previous one wholesale; nothing is updated incrementally.
type Snapshot struct {
	RefreshID string
	FetchedAt time.Time

	Transactions []pipeline.Transaction
	// Skipped counts malformed rows dropped during normalization.
	Skipped int

	MonthlyTotals  pipeline.Series
	MonthlyCounts  pipeline.Series
	MonthlyFlow    map[string]pipeline.Series
	MonthlyByMain  map[string]pipeline.Series
	MonthlyBySub   map[string]pipeline.Series
	RunningBalance pipeline.Series
	Savings        pipeline.Series
}

func buildSnapshot(transactions []pipeline.Transaction, skipped int) *Snapshot {
	savings := pipeline.Filter(transactions, func(tx pipeline.Transaction) bool {
		return tx.CashFlowType == pipeline.FlowTransferToSavings
	})

	return &Snapshot{
		RefreshID: uuid.New().String(),
		FetchedAt: time.Now().UTC(),

		Transactions: transactions,
		Skipped:      skipped,

		MonthlyTotals:  pipeline.Aggregate(transactions, pipeline.ByMonth),
		MonthlyCounts:  pipeline.CountPerBucket(transactions, pipeline.ByMonth),
		MonthlyFlow:    pipeline.AggregateBy(transactions, pipeline.ByMonth, pipeline.ByCashFlowType),
		MonthlyByMain:  pipeline.AggregateBy(transactions, pipeline.ByMonth, pipeline.ByMainCategory),
		MonthlyBySub:   pipeline.AggregateBy(transactions, pipeline.ByMonth, pipeline.BySubCategory),
		RunningBalance: pipeline.RunningTotal(pipeline.Aggregate(transactions, pipeline.ByDay)),
		Savings:        pipeline.Aggregate(savings, pipeline.ByMonth),
	}
}
