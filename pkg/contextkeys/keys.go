package contextkeys

type contextKey string

const (
	// ActorKey carries the authenticated user's display identity for the
	// audit trail.
	ActorKey   contextKey = "Actor"
	ActorIDKey contextKey = "ActorID"
)
