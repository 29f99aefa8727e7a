package pipeline

import "fmt"

// InvalidRecordError reports a single malformed transaction row, such as a
// missing date or amount. The refresh skips the row and keeps going; it never
// aborts the whole cycle for one bad record.
type InvalidRecordError struct {
	PageID string
	Field  string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid record %s: field %q: %s", e.PageID, e.Field, e.Reason)
}
