package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	id "kycmint/pkg/domain"
	dErrors "kycmint/pkg/domain-errors"
	"kycmint/pkg/platform/audit"
	"kycmint/pkg/platform/audit/outbox"
	"kycmint/pkg/platform/ids"
	"kycmint/pkg/platform/middleware/requesttime"
	"kycmint/pkg/requestcontext"
)

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("contract.id", s.contractID.String()))
	return s.tracer.Start(ctx, "credential."+name, trace.WithAttributes(attrs...))
}

// endSpan records err on span. Domain rejections are not span errors; only
// internal failures are.
func endSpan(span trace.Span, err error) {
	if err != nil {
		code := dErrors.CodeOf(err)
		span.SetAttributes(attribute.String("error.code", string(code)))
		if code == dErrors.CodeInternal || code == dErrors.CodeTimeout {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}

func (s *Service) newEvent(ctx context.Context, action audit.Action, actor id.AccountID, subject string, attrs map[string]string) audit.Event {
	now := requesttime.Now(ctx)
	return audit.Event{
		ID:         ids.NewEventID(now),
		Timestamp:  now,
		Contract:   s.contractID,
		Actor:      actor,
		Action:     action,
		Subject:    subject,
		RequestID:  requestcontext.RequestID(ctx),
		Attributes: attrs,
	}
}

// appendEvent writes ev to the outbox inside the caller's transaction, so the
// event commits or rolls back with the change it describes.
func appendEvent(ctx context.Context, st Stores, ev audit.Event) error {
	if st.Outbox == nil {
		return nil
	}
	entry, err := outbox.FromEvent(ev)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode audit event")
	}
	if err := st.Outbox.Append(ctx, entry); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append audit event")
	}
	return nil
}

// logEvent writes the audit line once the transaction has committed.
func (s *Service) logEvent(ctx context.Context, ev audit.Event) {
	audit.Log(ctx, s.logger, ev)
}
