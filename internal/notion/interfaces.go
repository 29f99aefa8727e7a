package notion

import (
	"context"

	"github.com/jomei/notionapi"
)

// Service defines the slice of the Notion API this dashboard needs.
// The dashboard is strictly read-only: it only ever queries databases.
// The interface enables mocking in tests.
type Service interface {
	// QueryDatabase queries one page of a Notion database.
	QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}
