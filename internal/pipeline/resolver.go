package pipeline

import (
	"github.com/jomei/notionapi"

	"github.com/dvloznov/finance-dashboard/internal/notion"
)

// Property names shared by the category databases.
const (
	PropName         = "Name"
	PropMainCategory = "Main Category"
)

// BuildCategoryMap builds a page-ID to name mapping from the rows of a
// category database. Pure function, total over any row sequence. Duplicate
// IDs resolve last-seen wins; rows without a readable name are skipped.
func BuildCategoryMap(pages []notionapi.Page, nameProp string) CategoryMap {
	m := make(CategoryMap, len(pages))
	for _, page := range pages {
		name, err := notion.Title(page, nameProp)
		if err != nil || name == "" {
			continue
		}
		m[string(page.ID)] = name
	}
	return m
}

// BuildSubToMain maps each sub-category page ID to the main-category page ID
// it relates to. Sub-categories without the relation are omitted; their
// transactions degrade to Uncategorized at the main level.
func BuildSubToMain(pages []notionapi.Page) map[string]string {
	m := make(map[string]string, len(pages))
	for _, page := range pages {
		ids, err := notion.RelationIDs(page, PropMainCategory)
		if err != nil || len(ids) == 0 {
			continue
		}
		m[string(page.ID)] = ids[0]
	}
	return m
}

// Resolver resolves category references on transactions to human-readable
// names. Built once per refresh from the two category databases.
type Resolver struct {
	Sub       CategoryMap
	Main      CategoryMap
	SubToMain map[string]string
}

// NewResolver builds a Resolver from the raw rows of the sub- and
// main-category databases.
func NewResolver(subPages, mainPages []notionapi.Page) *Resolver {
	return &Resolver{
		Sub:       BuildCategoryMap(subPages, PropName),
		Main:      BuildCategoryMap(mainPages, PropName),
		SubToMain: BuildSubToMain(subPages),
	}
}

// ResolveSub returns the sub-category name for a sub-category page ID, or
// Uncategorized when the reference is missing or unknown.
func (r *Resolver) ResolveSub(subID string) string {
	if name, ok := r.Sub[subID]; ok {
		return name
	}
	return Uncategorized
}

// ResolveMain returns the main-category name reached through a sub-category
// page ID, or Uncategorized when any link in the chain is missing.
func (r *Resolver) ResolveMain(subID string) string {
	mainID, ok := r.SubToMain[subID]
	if !ok {
		return Uncategorized
	}
	if name, ok := r.Main[mainID]; ok {
		return name
	}
	return Uncategorized
}
