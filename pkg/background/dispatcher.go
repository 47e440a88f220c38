package background

import (
	"context"
	"errors"
	"runtime/debug"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"tracking-service/pkg/logger"
)

var ErrDispatcherStopped = errors.New("dispatcher stopped")

// Job одноразовая фоновая работа, поставленная из обработчика запроса.
type Job func(ctx context.Context) error

type job struct {
	name       string
	fn         Job
	enqueuedAt time.Time
}

type DispatcherConfig struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}

// Dispatcher выполняет fire-and-forget задачи на фиксированном пуле воркеров.
// Submit никогда не блокирует: при переполненной очереди задача отбрасывается.
type Dispatcher struct {
	log     handlerLogger
	cfg     DispatcherConfig
	queue   chan job
	group   *errgroup.Group
	stopped atomic.Bool
	closed  chan struct{}
}

// NewDispatcher запускает воркеры. Задачи получают контекст ctx (жизненный цикл
// приложения), а не контекст запроса, который отменяется сразу после ответа.
func NewDispatcher(ctx context.Context, log handlerLogger, cfg DispatcherConfig) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}

	d := &Dispatcher{
		log:    log,
		cfg:    cfg,
		queue:  make(chan job, cfg.QueueSize),
		group:  &errgroup.Group{},
		closed: make(chan struct{}),
	}

	for i := 0; i < cfg.Workers; i++ {
		d.group.Go(func() error {
			d.run(ctx)
			return nil
		})
	}

	return d
}

// Submit ставит задачу в очередь. Возвращает false, если задача отброшена.
func (d *Dispatcher) Submit(name string, fn Job) bool {
	if d.stopped.Load() {
		DispatcherDroppedTotal.WithLabelValues(name, "stopped").Inc()
		return false
	}

	select {
	case d.queue <- job{name: name, fn: fn, enqueuedAt: time.Now()}:
		DispatcherQueueDepth.Set(float64(len(d.queue)))
		return true
	default:
		DispatcherDroppedTotal.WithLabelValues(name, "queue_full").Inc()
		d.log.Warn("dispatcher queue is full, job dropped",
			logger.NewField("job", name),
			logger.NewField("queue_size", d.cfg.QueueSize),
		)
		return false
	}
}

// Stop перестаёт принимать задачи и ждёт, пока воркеры разберут очередь
// или истечёт ctx.
func (d *Dispatcher) Stop(ctx context.Context) error {
	if d.stopped.Swap(true) {
		return ErrDispatcherStopped
	}
	close(d.closed)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = d.group.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run(ctx context.Context) {
	for {
		select {
		case j := <-d.queue:
			DispatcherQueueDepth.Set(float64(len(d.queue)))
			d.execute(ctx, j)
		case <-d.closed:
			d.drain(ctx)
			return
		case <-ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	for {
		select {
		case j := <-d.queue:
			d.execute(ctx, j)
		default:
			return
		}
	}
}

func (d *Dispatcher) execute(ctx context.Context, j job) {
	start := time.Now()
	result := "ok"

	defer func() {
		if r := recover(); r != nil {
			result = "panic"
			d.log.Error("dispatcher job panic",
				logger.NewField("job", j.name),
				logger.NewField("recover", r),
				logger.NewField("stack", string(debug.Stack())),
			)
		}
		DispatcherJobDuration.WithLabelValues(j.name, result).Observe(time.Since(start).Seconds())
	}()

	DispatcherQueueWait.WithLabelValues(j.name).Observe(start.Sub(j.enqueuedAt).Seconds())

	jobCtx := ctx
	if d.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, d.cfg.JobTimeout)
		defer cancel()
	}

	if err := j.fn(jobCtx); err != nil {
		result = "error"
		d.log.Warn("dispatcher job failed",
			logger.NewField("job", j.name),
			logger.NewField("error", err),
		)
	}
}
