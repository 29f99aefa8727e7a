package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
)

// pageSize is the maximum page size the Notion API allows per query.
const pageSize = 100

// Client is the concrete implementation of Service using the official
// Notion SDK.
type Client struct {
	client *notionapi.Client
}

// NewClient creates a new Client with the provided API token.
func NewClient(token string) *Client {
	return &Client{
		client: notionapi.NewClient(notionapi.Token(token)),
	}
}

// QueryDatabase queries one page of a Notion database. Failures are wrapped
// in ErrSourceUnavailable so callers can classify them without depending on
// SDK error types.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	resp, err := c.client.Database.Query(ctx, notionapi.DatabaseID(databaseID), req)
	if err != nil {
		return nil, fmt.Errorf("%w: query database %s: %v", ErrSourceUnavailable, databaseID, err)
	}
	return resp, nil
}

// FetchAll queries a database page by page until the cursor is exhausted and
// returns every row. It has no side effects beyond the read-only queries.
func FetchAll(ctx context.Context, svc Service, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: pageSize,
		}

		// Only set StartCursor if we have a cursor value
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := svc.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("FetchAll: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}
