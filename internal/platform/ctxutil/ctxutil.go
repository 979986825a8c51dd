// Package ctxutil carries per-request caller and correlation data on a
// context.Context.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

type (
	requestDataKey struct{}
	traceDataKey   struct{}
)

// RequestData is the authenticated caller.
type RequestData struct {
	TokenString string
	UserID      uuid.UUID
}

// TraceData correlates log lines and stored events with one request.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	rd, _ := ctx.Value(requestDataKey{}).(*RequestData)
	return rd
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	td, _ := ctx.Value(traceDataKey{}).(*TraceData)
	return td
}

// Metadata returns the correlation ids attached to session events. The
// active span's trace id is used when no explicit one was set.
func Metadata(ctx context.Context) map[string]string {
	meta := map[string]string{}
	if td := GetTraceData(ctx); td != nil {
		if td.RequestID != "" {
			meta["request_id"] = td.RequestID
		}
		if td.TraceID != "" {
			meta["trace_id"] = td.TraceID
		}
	}
	if _, ok := meta["trace_id"]; !ok && ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			meta["trace_id"] = sc.TraceID().String()
		}
	}
	return meta
}
