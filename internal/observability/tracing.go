package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// StartSpan starts a new span from context
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name, opts...)
}

// StartServiceSpan starts a span named "<service>.<operation>"
func StartServiceSpan(ctx context.Context, service, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("service.component", service),
		attribute.String("service.operation", operation),
	)
	return StartSpan(ctx, fmt.Sprintf("%s.%s", service, operation),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// EndSpan records err (if any) and ends the span. Use with a named error
// return: defer func() { observability.EndSpan(span, err) }()
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// BusinessMetrics holds the application counters. A nil *BusinessMetrics is
// valid and records nothing.
type BusinessMetrics struct {
	collectionsCreated metric.Int64Counter
	collectionsDeleted metric.Int64Counter
	worksAdded         metric.Int64Counter
	sharesCreated      metric.Int64Counter
	shareStatusChanges metric.Int64Counter
	notificationsSent  metric.Int64Counter
	authAttempts       metric.Int64Counter
	avatarUploads      metric.Int64Counter
}

// NewBusinessMetrics creates business metrics instruments on the global meter provider
func NewBusinessMetrics() (*BusinessMetrics, error) {
	meter := otel.Meter(instrumentationName)
	m := &BusinessMetrics{}

	counters := []struct {
		dst        *metric.Int64Counter
		name, desc string
		unit       string
	}{
		{&m.collectionsCreated, "gather.collections.created", "Collections created", "{collections}"},
		{&m.collectionsDeleted, "gather.collections.deleted", "Collections deleted", "{collections}"},
		{&m.worksAdded, "gather.collections.works_added", "Works added to collections", "{works}"},
		{&m.sharesCreated, "gather.shares.created", "Shares created", "{shares}"},
		{&m.shareStatusChanges, "gather.shares.status_changes", "Share status transitions", "{changes}"},
		{&m.notificationsSent, "gather.notifications.sent", "Notifications created", "{notifications}"},
		{&m.authAttempts, "gather.auth.attempts", "Authentication attempts", "{attempts}"},
		{&m.avatarUploads, "gather.users.avatar_uploads", "Profile picture uploads", "{uploads}"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}
	return m, nil
}

// RecordCollectionCreated counts a new collection of the given work type
func (m *BusinessMetrics) RecordCollectionCreated(ctx context.Context, workType string) {
	if m == nil {
		return
	}
	m.collectionsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("work_type", workType)))
}

// RecordCollectionDeleted counts a deleted collection
func (m *BusinessMetrics) RecordCollectionDeleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.collectionsDeleted.Add(ctx, 1)
}

// RecordWorksAdded counts works accepted into a collection
func (m *BusinessMetrics) RecordWorksAdded(ctx context.Context, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.worksAdded.Add(ctx, int64(count))
}

// RecordShareCreated counts a share by granted rights
func (m *BusinessMetrics) RecordShareCreated(ctx context.Context, rights string) {
	if m == nil {
		return
	}
	m.sharesCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("rights", rights)))
}

// RecordShareStatusChange counts a guest's response to a share
func (m *BusinessMetrics) RecordShareStatusChange(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.shareStatusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordNotificationSent counts a stored notification
func (m *BusinessMetrics) RecordNotificationSent(ctx context.Context, notificationType string) {
	if m == nil {
		return
	}
	m.notificationsSent.Add(ctx, 1, metric.WithAttributes(attribute.String("type", notificationType)))
}

// RecordAuthAttempt records an authentication attempt
func (m *BusinessMetrics) RecordAuthAttempt(ctx context.Context, method string, success bool) {
	if m == nil {
		return
	}
	m.authAttempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("auth_method", method),
		attribute.Bool("success", success),
	))
}

// RecordAvatarUpload records a profile picture upload
func (m *BusinessMetrics) RecordAvatarUpload(ctx context.Context, storage string, success bool) {
	if m == nil {
		return
	}
	m.avatarUploads.Add(ctx, 1, metric.WithAttributes(
		attribute.String("storage", storage),
		attribute.Bool("success", success),
	))
}
