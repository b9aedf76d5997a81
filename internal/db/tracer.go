package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

type queryStartKey struct{}

type queryStart struct {
	sql   string
	start time.Time
}

// QueryTracer is a pgx.QueryTracer that warns about queries slower than
// Threshold and logs failed ones at debug. A zero Threshold disables the
// slow query warning.
type QueryTracer struct {
	Logger    logrus.FieldLogger
	Threshold time.Duration

	now func() time.Time
}

func (t *QueryTracer) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}

func (t *QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, &queryStart{sql: data.SQL, start: t.clock()})
}

func (t *QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	qs, ok := ctx.Value(queryStartKey{}).(*queryStart)
	if !ok {
		return
	}

	elapsed := t.clock().Sub(qs.start)
	entry := t.Logger.WithFields(logrus.Fields{
		"sql":         qs.sql,
		"duration_ms": elapsed.Milliseconds(),
	})

	if data.Err != nil {
		entry.WithError(data.Err).Debug("query failed")
		return
	}

	if t.Threshold > 0 && elapsed >= t.Threshold {
		entry.WithField("rows", data.CommandTag.RowsAffected()).Warn("slow query")
	}
}
