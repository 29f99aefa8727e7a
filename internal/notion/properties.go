package notion

import (
	"time"

	"github.com/jomei/notionapi"
)

// Typed accessors over page properties. Notion includes every column of a
// database on every page, with null values for empty cells, so a missing key
// or a value of the wrong property type means the column itself is absent or
// redefined: schema drift, reported as *SchemaError. An empty cell is not a
// schema error; accessors return the zero value for it and leave the
// row-level policy to the normalizer.

// Title returns the plain-text content of a title property.
func Title(page notionapi.Page, name string) (string, error) {
	prop, ok := page.Properties[name]
	if !ok {
		return "", &SchemaError{Property: name, Reason: "property not present"}
	}
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return richTextContent(p.Title), nil
	case notionapi.TitleProperty:
		return richTextContent(p.Title), nil
	default:
		return "", &SchemaError{Property: name, Reason: "not a title property"}
	}
}

// Number returns the numeric value of a number property. Notion encodes an
// empty number cell as 0.
func Number(page notionapi.Page, name string) (float64, error) {
	prop, ok := page.Properties[name]
	if !ok {
		return 0, &SchemaError{Property: name, Reason: "property not present"}
	}
	switch p := prop.(type) {
	case *notionapi.NumberProperty:
		return p.Number, nil
	case notionapi.NumberProperty:
		return p.Number, nil
	default:
		return 0, &SchemaError{Property: name, Reason: "not a number property"}
	}
}

// SelectName returns the selected option name of a select property, or ""
// when nothing is selected.
func SelectName(page notionapi.Page, name string) (string, error) {
	prop, ok := page.Properties[name]
	if !ok {
		return "", &SchemaError{Property: name, Reason: "property not present"}
	}
	switch p := prop.(type) {
	case *notionapi.SelectProperty:
		return p.Select.Name, nil
	case notionapi.SelectProperty:
		return p.Select.Name, nil
	default:
		return "", &SchemaError{Property: name, Reason: "not a select property"}
	}
}

// OptionalSelect is SelectName for columns the schema does not require; an
// absent column reads as "".
func OptionalSelect(page notionapi.Page, name string) string {
	value, err := SelectName(page, name)
	if err != nil {
		return ""
	}
	return value
}

// DateStart returns the start of a date property, or the zero time when the
// cell is empty.
func DateStart(page notionapi.Page, name string) (time.Time, error) {
	prop, ok := page.Properties[name]
	if !ok {
		return time.Time{}, &SchemaError{Property: name, Reason: "property not present"}
	}
	var obj *notionapi.DateObject
	switch p := prop.(type) {
	case *notionapi.DateProperty:
		obj = p.Date
	case notionapi.DateProperty:
		obj = p.Date
	default:
		return time.Time{}, &SchemaError{Property: name, Reason: "not a date property"}
	}
	if obj == nil || obj.Start == nil {
		return time.Time{}, nil
	}
	return time.Time(*obj.Start), nil
}

// RelationIDs returns the linked page IDs of a relation property. An empty
// relation yields an empty slice.
func RelationIDs(page notionapi.Page, name string) ([]string, error) {
	prop, ok := page.Properties[name]
	if !ok {
		return nil, &SchemaError{Property: name, Reason: "property not present"}
	}
	var relations []notionapi.Relation
	switch p := prop.(type) {
	case *notionapi.RelationProperty:
		relations = p.Relation
	case notionapi.RelationProperty:
		relations = p.Relation
	default:
		return nil, &SchemaError{Property: name, Reason: "not a relation property"}
	}
	ids := make([]string, 0, len(relations))
	for _, rel := range relations {
		ids = append(ids, string(rel.ID))
	}
	return ids, nil
}

func richTextContent(parts []notionapi.RichText) string {
	var out string
	for _, part := range parts {
		if part.PlainText != "" {
			out += part.PlainText
			continue
		}
		if part.Text != nil {
			out += part.Text.Content
		}
	}
	return out
}
