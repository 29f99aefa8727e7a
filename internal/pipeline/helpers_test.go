package pipeline

import (
	"time"

	"github.com/jomei/notionapi"
)

// catPage builds a category database row. mainIDs, when given, populate the
// "Main Category" relation (sub-category rows only).
func catPage(id, name string, mainIDs ...string) notionapi.Page {
	props := notionapi.Properties{
		PropName: notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: name}},
			},
		},
	}
	relations := make([]notionapi.Relation, 0, len(mainIDs))
	for _, mid := range mainIDs {
		relations = append(relations, notionapi.Relation{ID: notionapi.PageID(mid)})
	}
	props[PropMainCategory] = notionapi.RelationProperty{Relation: relations}
	return notionapi.Page{ID: notionapi.ObjectID(id), Properties: props}
}

// txRow describes a synthetic transaction database row for tests.
type txRow struct {
	id       string
	name     string
	date     time.Time
	noDate   bool
	amount   float64
	flow     string
	account  string
	currency string
	business string
	subID    string
}

func txPage(r txRow) notionapi.Page {
	props := notionapi.Properties{
		PropName: notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: r.name}},
			},
		},
		PropAmount:       notionapi.NumberProperty{Number: r.amount},
		PropCashFlowType: notionapi.SelectProperty{Select: notionapi.Option{Name: r.flow}},
		PropAccount:      notionapi.SelectProperty{Select: notionapi.Option{Name: r.account}},
	}

	if r.noDate {
		props[PropDate] = notionapi.DateProperty{}
	} else {
		start := notionapi.Date(r.date)
		props[PropDate] = notionapi.DateProperty{Date: &notionapi.DateObject{Start: &start}}
	}

	if r.currency != "" {
		props[PropCurrency] = notionapi.SelectProperty{Select: notionapi.Option{Name: r.currency}}
	}
	if r.business != "" {
		props[PropBusinessRelated] = notionapi.SelectProperty{Select: notionapi.Option{Name: r.business}}
	}

	var relations []notionapi.Relation
	if r.subID != "" {
		relations = append(relations, notionapi.Relation{ID: notionapi.PageID(r.subID)})
	}
	props[PropSubCategory] = notionapi.RelationProperty{Relation: relations}

	return notionapi.Page{ID: notionapi.ObjectID(r.id), Properties: props}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
