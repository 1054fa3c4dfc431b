// Package journal records every applied store action. Entries are written,
// never read back.
package journal

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type Entry struct {
	SessionID string
	Seq       int
	Store     string
	Action    string
	Payload   any
	At        time.Time
}

type Sink interface {
	Write(ctx context.Context, e Entry) error
	Close() error
}

// ZapSink logs entries at debug level.
type ZapSink struct {
	log *zap.Logger
}

func NewZapSink(log *zap.Logger) *ZapSink {
	return &ZapSink{log: log.With(zap.String("component", "journal"))}
}

func (z *ZapSink) Write(_ context.Context, e Entry) error {
	z.log.Debug("store action",
		zap.String("session", e.SessionID),
		zap.Int("seq", e.Seq),
		zap.String("store", e.Store),
		zap.String("action", e.Action),
		zap.Any("payload", e.Payload),
	)
	return nil
}

// Close is a no-op; the owner of the logger syncs it.
func (z *ZapSink) Close() error { return nil }

// Multi writes to every sink and combines their errors.
type Multi []Sink

func (m Multi) Write(ctx context.Context, e Entry) error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Write(ctx, e))
	}
	return err
}

func (m Multi) Close() error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Close())
	}
	return err
}

// Discard drops every entry.
var Discard Sink = discard{}

type discard struct{}

func (discard) Write(context.Context, Entry) error { return nil }
func (discard) Close() error                       { return nil }
