package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/config"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/notion"
	"github.com/dvloznov/finance-dashboard/internal/pipeline"
)

// fakeSource serves pre-built pages per database ID.
type fakeSource struct {
	databases map[string][]notionapi.Page
	err       error
	queries   int
}

func (f *fakeSource) QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	pages, ok := f.databases[databaseID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown database %s", notion.ErrSourceUnavailable, databaseID)
	}
	return &notionapi.DatabaseQueryResponse{Results: pages, HasMore: false}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		TransactionsDBID:   "db-tx",
		SubCategoriesDBID:  "db-sub",
		MainCategoriesDBID: "db-main",
		DefaultCurrency:    "JPY",
		RefreshTimeout:     5 * time.Second,
	}
}

func titleProp(content string) notionapi.TitleProperty {
	return notionapi.TitleProperty{
		Title: []notionapi.RichText{
			{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: content}},
		},
	}
}

func categoryPage(id, name string, mainIDs ...string) notionapi.Page {
	relations := make([]notionapi.Relation, 0, len(mainIDs))
	for _, mid := range mainIDs {
		relations = append(relations, notionapi.Relation{ID: notionapi.PageID(mid)})
	}
	return notionapi.Page{
		ID: notionapi.ObjectID(id),
		Properties: notionapi.Properties{
			pipeline.PropName:         titleProp(name),
			pipeline.PropMainCategory: notionapi.RelationProperty{Relation: relations},
		},
	}
}

func transactionPage(id, name, dateStr string, amount float64, flow, subID string) notionapi.Page {
	props := notionapi.Properties{
		pipeline.PropName:         titleProp(name),
		pipeline.PropAmount:       notionapi.NumberProperty{Number: amount},
		pipeline.PropCashFlowType: notionapi.SelectProperty{Select: notionapi.Option{Name: flow}},
		pipeline.PropAccount:      notionapi.SelectProperty{},
	}
	if dateStr == "" {
		props[pipeline.PropDate] = notionapi.DateProperty{}
	} else {
		t, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			panic(err)
		}
		start := notionapi.Date(t)
		props[pipeline.PropDate] = notionapi.DateProperty{Date: &notionapi.DateObject{Start: &start}}
	}
	var relations []notionapi.Relation
	if subID != "" {
		relations = append(relations, notionapi.Relation{ID: notionapi.PageID(subID)})
	}
	props[pipeline.PropSubCategory] = notionapi.RelationProperty{Relation: relations}
	return notionapi.Page{ID: notionapi.ObjectID(id), Properties: props}
}

func testSource() *fakeSource {
	return &fakeSource{databases: map[string][]notionapi.Page{
		"db-sub": {
			categoryPage("sub-groceries", "Groceries", "main-living"),
			categoryPage("sub-salary", "Salary", "main-income"),
		},
		"db-main": {
			categoryPage("main-living", "Living Expenses"),
			categoryPage("main-income", "Income"),
		},
		"db-tx": {
			transactionPage("tx-1", "Supermarket", "2024-01-10", 50, pipeline.FlowExpense, "sub-groceries"),
			transactionPage("tx-2", "Paycheck", "2024-01-25", 200, pipeline.FlowRevenue, "sub-salary"),
			transactionPage("tx-3", "Mystery", "2024-02-05", 75, pipeline.FlowRevenue, "sub-unknown"),
			// Malformed: no date. Must be skipped, not fatal.
			transactionPage("tx-4", "Broken", "", 10, pipeline.FlowExpense, ""),
		},
	}}
}

func newTestService(src *fakeSource) *Service {
	return NewService(src, testConfig(), logger.New("error"))
}

func TestRefresh(t *testing.T) {
	svc := newTestService(testSource())

	snap, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if len(snap.Transactions) != 3 {
		t.Fatalf("snapshot has %d transactions, want 3", len(snap.Transactions))
	}
	if snap.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", snap.Skipped)
	}
	if snap.RefreshID == "" {
		t.Error("RefreshID is empty")
	}

	// Categories resolved through the sub -> main chain.
	first := snap.Transactions[0]
	if first.SubCategory != "Groceries" || first.MainCategory != "Living Expenses" {
		t.Errorf("tx-1 categories = %q/%q", first.SubCategory, first.MainCategory)
	}
	// Unknown sub-category reference degrades to Uncategorized.
	third := snap.Transactions[2]
	if third.SubCategory != pipeline.Uncategorized {
		t.Errorf("tx-3 sub-category = %q, want Uncategorized", third.SubCategory)
	}

	// Monthly totals: 2024-01 = -50 + 200 = 150, 2024-02 = 75.
	if len(snap.MonthlyTotals) != 2 {
		t.Fatalf("MonthlyTotals has %d buckets, want 2: %v", len(snap.MonthlyTotals), snap.MonthlyTotals)
	}
	if !snap.MonthlyTotals[0].Value.Equal(decimal.NewFromInt(150)) {
		t.Errorf("2024-01 total = %s, want 150", snap.MonthlyTotals[0].Value)
	}
	if !snap.MonthlyTotals[1].Value.Equal(decimal.NewFromInt(75)) {
		t.Errorf("2024-02 total = %s, want 75", snap.MonthlyTotals[1].Value)
	}

	// Grouped series exist for both resolved main categories.
	if _, ok := snap.MonthlyByMain["Living Expenses"]; !ok {
		t.Errorf("MonthlyByMain missing Living Expenses: %v", snap.MonthlyByMain)
	}
	if _, ok := snap.MonthlyByMain[pipeline.Uncategorized]; !ok {
		t.Errorf("MonthlyByMain missing Uncategorized: %v", snap.MonthlyByMain)
	}

	// Running balance ends at the grand total.
	if n := len(snap.RunningBalance); n == 0 || !snap.RunningBalance[n-1].Value.Equal(decimal.NewFromInt(225)) {
		t.Errorf("running balance end = %v, want 225", snap.RunningBalance)
	}
}

func TestRefresh_PublishesSnapshot(t *testing.T) {
	svc := newTestService(testSource())

	if svc.Current() != nil {
		t.Fatal("Current() != nil before first refresh")
	}

	snap, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if svc.Current() != snap {
		t.Error("Current() does not return the published snapshot")
	}

	second, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("second Refresh failed: %v", err)
	}
	if second.RefreshID == snap.RefreshID {
		t.Error("second refresh reused the previous refresh ID")
	}
	if svc.Current() != second {
		t.Error("Current() not swapped to the newest snapshot")
	}
}

func TestRefresh_SourceUnavailable(t *testing.T) {
	src := testSource()
	src.err = fmt.Errorf("%w: 401 unauthorized", notion.ErrSourceUnavailable)
	svc := newTestService(src)

	_, err := svc.Refresh(context.Background())
	if !errors.Is(err, notion.ErrSourceUnavailable) {
		t.Fatalf("error %v does not wrap ErrSourceUnavailable", err)
	}
	if svc.Current() != nil {
		t.Error("failed refresh published a snapshot")
	}
}

func TestRefresh_SchemaDriftIsFatal(t *testing.T) {
	src := testSource()
	// Drop the Amount column from one transaction page.
	delete(src.databases["db-tx"][0].Properties, pipeline.PropAmount)
	svc := newTestService(src)

	_, err := svc.Refresh(context.Background())
	var schemaErr *notion.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error %v is not *notion.SchemaError", err)
	}
}

func TestCurrentOrRefresh(t *testing.T) {
	src := testSource()
	svc := newTestService(src)

	snap, err := svc.CurrentOrRefresh(context.Background())
	if err != nil {
		t.Fatalf("CurrentOrRefresh failed: %v", err)
	}
	if snap == nil {
		t.Fatal("CurrentOrRefresh returned nil snapshot")
	}

	queriesAfterFirst := src.queries
	again, err := svc.CurrentOrRefresh(context.Background())
	if err != nil {
		t.Fatalf("second CurrentOrRefresh failed: %v", err)
	}
	if again != snap {
		t.Error("second call did not reuse the cached snapshot")
	}
	if src.queries != queriesAfterFirst {
		t.Errorf("second call hit the source (%d -> %d queries)", queriesAfterFirst, src.queries)
	}
}

func TestRefresh_EmptyTransactions(t *testing.T) {
	src := testSource()
	src.databases["db-tx"] = nil
	svc := newTestService(src)

	snap, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if len(snap.Transactions) != 0 {
		t.Errorf("snapshot has %d transactions, want 0", len(snap.Transactions))
	}
	if len(snap.MonthlyTotals) != 0 {
		t.Errorf("MonthlyTotals = %v, want empty series", snap.MonthlyTotals)
	}
}
