package notify

import (
	"context"
	"fmt"
	"sync"
	"time"
	"webshop-service/internal/domain"

	"github.com/cenkalti/backoff/v5"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

const defaultDeliveryTimeout = 15 * time.Second

type DispatcherOptions struct {
	Workers         int
	MaxTries        uint
	DeliveryTimeout time.Duration
	InitialBackoff  time.Duration
}

// Dispatcher fans events out to its sinks on a bounded worker pool. Each
// delivery is retried with exponential backoff; events that do not fit in
// the pool are dropped and logged.
type Dispatcher struct {
	pool  *ants.Pool
	sinks []Sink
	opts  DispatcherOptions
	wg    sync.WaitGroup
}

var _ Emitter = (*Dispatcher)(nil)

func NewDispatcher(opts DispatcherOptions, sinks ...Sink) (*Dispatcher, error) {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.MaxTries == 0 {
		opts.MaxTries = 1
	}
	if opts.DeliveryTimeout <= 0 {
		opts.DeliveryTimeout = defaultDeliveryTimeout
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = 500 * time.Millisecond
	}

	pool, err := ants.NewPool(opts.Workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("notification pool: %w", err)
	}
	return &Dispatcher{pool: pool, sinks: sinks, opts: opts}, nil
}

func (d *Dispatcher) Emit(evt domain.NotificationEvent) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	for _, s := range d.sinks {
		s := s
		d.wg.Add(1)
		err := d.pool.Submit(func() {
			defer d.wg.Done()
			d.deliver(s, evt)
		})
		if err != nil {
			d.wg.Done()
			zap.L().Warn("notification dropped",
				zap.String("sink", s.Name()),
				zap.String("event", string(evt.Type)),
				zap.Error(fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)))
		}
	}
}

func (d *Dispatcher) deliver(s Sink, evt domain.NotificationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.opts.DeliveryTimeout)
	defer cancel()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.opts.InitialBackoff

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, s.Send(ctx, evt)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(d.opts.MaxTries))
	if err != nil {
		zap.L().Warn("notification failed",
			zap.String("sink", s.Name()),
			zap.String("event", string(evt.Type)),
			zap.String("user_id", evt.UserID),
			zap.Error(fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)))
		return
	}
	zap.L().Debug("notification delivered", zap.String("sink", s.Name()), zap.String("event", string(evt.Type)))
}

// Close waits for queued deliveries and releases the pool.
func (d *Dispatcher) Close() {
	d.wg.Wait()
	d.pool.Release()
}
