package pipeline

import (
	"github.com/jomei/notionapi"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/notion"
)

// Transaction database property names (the source schema is fixed).
const (
	PropDate            = "Date"
	PropAmount          = "Amount"
	PropCurrency        = "Currency"
	PropAccount         = "Account"
	PropCashFlowType    = "Cash Flow Type"
	PropBusinessRelated = "Business Related?"
	PropSubCategory     = "Sub Category"
)

// businessRelatedValue is the select option marking business transactions.
const businessRelatedValue = "Business-Related"

// Normalize converts one raw transaction row into a Transaction, resolving
// category references through the resolver. Deterministic and pure.
//
// It returns *notion.SchemaError when a required column is absent from the
// database (fatal to the refresh) and *InvalidRecordError when this one row
// is missing its date or amount (skipped by the caller). Unresolved category
// references are not errors; they become Uncategorized.
func Normalize(page notionapi.Page, res *Resolver, defaultCurrency string) (Transaction, error) {
	pageID := string(page.ID)

	name, err := notion.Title(page, PropName)
	if err != nil {
		return Transaction{}, err
	}

	date, err := notion.DateStart(page, PropDate)
	if err != nil {
		return Transaction{}, err
	}
	if date.IsZero() {
		return Transaction{}, &InvalidRecordError{PageID: pageID, Field: PropDate, Reason: "missing date"}
	}

	number, err := notion.Number(page, PropAmount)
	if err != nil {
		return Transaction{}, err
	}
	// Notion encodes an empty number cell as 0, so a zero amount is
	// indistinguishable from a missing one. Neither belongs on a chart.
	if number == 0 {
		return Transaction{}, &InvalidRecordError{PageID: pageID, Field: PropAmount, Reason: "missing or zero amount"}
	}

	subIDs, err := notion.RelationIDs(page, PropSubCategory)
	if err != nil {
		return Transaction{}, err
	}
	subID := ""
	if len(subIDs) > 0 {
		subID = subIDs[0]
	}

	flowType := notion.OptionalSelect(page, PropCashFlowType)
	currency := notion.OptionalSelect(page, PropCurrency)
	if currency == "" {
		currency = defaultCurrency
	}

	amount := decimal.NewFromFloat(number).Round(2)
	// Fix the sign convention at creation: outflows negative, inflows
	// positive. Rows already stored signed keep their sign.
	if outflow(flowType) && amount.IsPositive() {
		amount = amount.Neg()
	}

	return Transaction{
		PageID:          pageID,
		Name:            name,
		Date:            date,
		Amount:          amount,
		Currency:        currency,
		CashFlowType:    flowType,
		Account:         notion.OptionalSelect(page, PropAccount),
		BusinessRelated: notion.OptionalSelect(page, PropBusinessRelated) == businessRelatedValue,
		SubCategory:     res.ResolveSub(subID),
		MainCategory:    res.ResolveMain(subID),
	}, nil
}
