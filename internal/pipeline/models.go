package pipeline

import (
	"time"

	"github.com/shopspring/decimal"
)

// Uncategorized is the sentinel category name substituted for unresolved or
// missing category references. Never an error.
const Uncategorized = "Uncategorized"

// Cash flow types as they appear in the Notion "Cash Flow Type" select.
const (
	FlowRevenue           = "Revenue"
	FlowExpense           = "Expense"
	FlowTransferToSavings = "Transfer to Savings"
	FlowBankTransferIn    = "Bank Transfer In"
	FlowBankTransferOut   = "Bank Transfer Out"
)

// Transaction is one normalized ledger row, produced by Normalize from a raw
// Notion page plus the category maps. Immutable after creation.
//
// Sign convention: Notion stores magnitudes; Normalize makes outflow types
// (Expense, Transfer to Savings, Bank Transfer Out) negative and leaves
// inflows positive. Amounts are 2-decimal fixed point.
type Transaction struct {
	PageID          string
	Name            string
	Date            time.Time
	Amount          decimal.Decimal
	Currency        string
	CashFlowType    string
	Account         string
	BusinessRelated bool
	SubCategory     string
	MainCategory    string
}

// CategoryMap maps a Notion page ID to its human-readable name.
type CategoryMap map[string]string

// Point is one aggregated value for one calendar bucket.
type Point struct {
	Bucket string
	Value  decimal.Decimal
}

// Series is the ordered output of aggregation: one value per bucket,
// chronologically ascending, used directly to drive a chart.
type Series []Point

// Total sums the series values.
func (s Series) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s {
		total = total.Add(p.Value)
	}
	return total
}

// outflow reports whether a cash flow type represents money leaving the
// accounts.
func outflow(flowType string) bool {
	switch flowType {
	case FlowExpense, FlowTransferToSavings, FlowBankTransferOut:
		return true
	}
	return false
}
