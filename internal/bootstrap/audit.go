package bootstrap

import "context"

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger records operator-visible events such as payroll runs and shutdowns.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
