package utils

import (
	"context"
	"strings"

	"inventory-system/pkg/contextkeys"
)

// ActorFromContext returns the authenticated actor name for audit records.
// Falls back to "system" for background jobs and unauthenticated flows.
func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(contextkeys.ActorKey).(string); ok && actor != "" {
		return actor
	}
	return "system"
}

func Ptr[T any](v T) *T { return &v }

// NormalizeKey trims surrounding whitespace from a natural key such as an
// inventory number or employee code.
func NormalizeKey(s string) string {
	return strings.TrimSpace(s)
}
