package audit

import (
	"context"
	"log/slog"
	"sort"

	"kycmint/pkg/requestcontext"
)

// Log writes ev as a structured audit line. Attribute keys are sorted so the
// line is stable across runs.
func Log(ctx context.Context, logger *slog.Logger, ev Event) {
	if logger == nil {
		return
	}
	requestID := ev.RequestID
	if requestID == "" {
		requestID = requestcontext.RequestID(ctx)
	}

	args := []any{
		"log_type", "audit",
		"event_id", ev.ID,
		"contract", ev.Contract.String(),
		"actor", ev.Actor.String(),
	}
	if ev.Subject != "" {
		args = append(args, "subject", ev.Subject)
	}
	if requestID != "" {
		args = append(args, "request_id", requestID)
	}
	keys := make([]string, 0, len(ev.Attributes))
	for k := range ev.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, k, ev.Attributes[k])
	}
	logger.InfoContext(ctx, string(ev.Action), args...)
}
