package authinbox

import "context"

// contextKey is a private type to prevent context key collisions.
type contextKey int

const runIDKey contextKey = iota + 1

// NewContextWithRunID returns a context carrying the pipeline run ID.
// Every ingested email is processed under exactly one run ID, which ties
// together the log lines of its normalize/persist/extract/notify steps.
func NewContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the pipeline run ID, or "" if none is set.
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}
