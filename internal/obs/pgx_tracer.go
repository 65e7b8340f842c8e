package obs

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PGXTracer emits a span per SQL statement, so warehouse lock waits and
// stock decrements show up inside the request trace.
type PGXTracer struct{}

// TraceQueryStart opens the span; the first keyword of the statement
// (select, update, insert) names it.
func (PGXTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	name := "db.query"
	if verb := statementVerb(data.SQL); verb != "" {
		name = "db." + verb
	}
	ctx, span := otel.Tracer("scos.db").Start(ctx, name)
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.statement", clampSQL(data.SQL)),
	)
	return ctx
}

// TraceQueryEnd closes the span opened in TraceQueryStart and records any error.
func (PGXTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	span := trace.SpanFromContext(ctx)
	if data.Err != nil {
		span.RecordError(data.Err)
	}
	span.End()
}

func statementVerb(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

func clampSQL(sql string) string {
	trimmed := strings.Join(strings.Fields(sql), " ")
	if len(trimmed) > 256 {
		return trimmed[:256] + "..."
	}
	return trimmed
}
