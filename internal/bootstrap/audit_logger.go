package bootstrap

import "context"

// AuditLog is one operational audit entry, distinct from request
// logging: these record lifecycle actions an operator may need to
// account for later.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
