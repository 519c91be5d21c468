package shared

import (
	"context"
	"log/slog"
	"net/http"

	"leavedesk/internal/transport/http/middleware"
)

// Auditor is satisfied by *audit.Service.
type Auditor interface {
	Record(ctx context.Context, actorID, action, entityType, entityID, requestID, ip string, before, after any) error
}

// RecordAudit records one audit event for r. Failures are logged and never
// surface to the caller.
func RecordAudit(r *http.Request, a Auditor, action, entityType, entityID string, before, after any) {
	if a == nil {
		return
	}
	ctx := r.Context()
	if err := a.Record(ctx, middleware.GetActor(ctx), action, entityType, entityID, middleware.GetRequestID(ctx), ClientIP(r), before, after); err != nil {
		slog.Warn("audit "+action+" failed", "entityId", entityID, "err", err)
	}
}
