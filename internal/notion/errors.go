package notion

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable marks authentication or network failures reaching the
// Notion API. A refresh that hits it fails as a whole; there is no retry.
var ErrSourceUnavailable = errors.New("notion source unavailable")

// SchemaError reports a property that the fixed source schema expects but the
// queried database does not carry. It indicates configuration or schema
// drift and is fatal to the refresh, never silently dropped.
type SchemaError struct {
	Property string
	Reason   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch on property %q: %s", e.Property, e.Reason)
}
