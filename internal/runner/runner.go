// Package runner performs a single sync: fetch the user's data and
// replace the backup directory with it.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// TimeLayout renders local date-times like 2024-03-09T14:05:07.123.
const TimeLayout = "2006-01-02T15:04:05.999999999"

type Fetcher interface {
	MyData(ctx context.Context) (json.RawMessage, error)
}

type Destination interface {
	Write(value json.RawMessage) error
}

type Result struct {
	// At is when the sync finished, in local time.
	At time.Time
	// Took is the wall-clock duration of the fetch and the write.
	Took time.Duration
}

func (r Result) String() string {
	return fmt.Sprintf("Done at %s took %s", r.At.Format(TimeLayout), r.Took)
}

type Runner struct {
	fetcher Fetcher
	dest    Destination
	logger  *zap.Logger
	now     func() time.Time
}

type Option func(*Runner)

func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

func New(fetcher Fetcher, dest Destination, opts ...Option) *Runner {
	r := &Runner{
		fetcher: fetcher,
		dest:    dest,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run fetches the data and writes it. The destination is not touched
// unless the fetch returned a valid payload.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	start := r.now()

	r.logger.Debug("fetching my data")
	me, err := r.fetcher.MyData(ctx)
	if err != nil {
		return Result{}, err
	}
	r.logger.Debug("fetched my data", zap.Int("bytes", len(me)))

	if err := r.dest.Write(me); err != nil {
		return Result{}, errors.WithMessage(err, "failed to write backup")
	}

	end := r.now()
	return Result{At: end.Local(), Took: end.Sub(start)}, nil
}
