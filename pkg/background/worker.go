package background

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"
	"tracking-service/pkg/logger"
)

// Task периодическая фоновая задача.
type Task interface {
	// TTL интервал между запусками.
	TTL() time.Duration

	Do(context.Context) error

	// Info короткое имя задачи для логов и метрик.
	Info() string
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

// Worker крутит набор периодических задач до отмены ctx.
type Worker struct {
	log   handlerLogger
	tasks []Task
	loops *errgroup.Group
}

// New один раз прогоняет все задачи синхронно и только потом запускает
// периодические циклы. Ошибка прогрева возвращается сразу.
func New(ctx context.Context, log handlerLogger, tasks []Task) (*Worker, error) {
	w := &Worker{
		log:   log,
		tasks: tasks,
		loops: &errgroup.Group{},
	}

	if err := w.warmUp(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize tasks: %w", err)
	}

	for _, task := range tasks {
		if task.TTL() <= 0 {
			log.Warn("invalid TTL, periodic execution disabled",
				logger.NewField("task", task.Info()),
				logger.NewField("ttl", task.TTL().String()),
			)
			continue
		}
		w.loops.Go(func() error {
			w.loop(ctx, task)
			return nil
		})
	}

	return w, nil
}

// Wait ждёт завершения всех циклов после отмены ctx.
func (w *Worker) Wait() {
	_ = w.loops.Wait()
}

func (w *Worker) warmUp(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)
	for _, task := range w.tasks {
		group.Go(func() error {
			w.log.Info("warming up task", logger.NewField("task", task.Info()))
			return w.runOnce(groupCtx, task)
		})
	}
	return group.Wait()
}

func (w *Worker) loop(ctx context.Context, task Task) {
	ticker := time.NewTicker(task.TTL())
	defer ticker.Stop()

	w.log.Info("task scheduled",
		logger.NewField("task", task.Info()),
		logger.NewField("ttl", task.TTL().String()),
	)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("task stopped", logger.NewField("task", task.Info()))
			return
		case <-ticker.C:
			if err := w.runOnce(ctx, task); err != nil {
				w.log.Error("background task failed",
					logger.NewField("task", task.Info()),
					logger.NewField("error", err),
				)
			}
		}
	}
}

// runOnce выполняет задачу, превращая панику в ошибку.
func (w *Worker) runOnce(ctx context.Context, task Task) (err error) {
	start := time.Now()
	result := "ok"

	defer func() {
		if r := recover(); r != nil {
			result = "panic"
			err = fmt.Errorf("task %q panic: %v", task.Info(), r)
			w.log.Error("background task panic",
				logger.NewField("task", task.Info()),
				logger.NewField("recover", r),
				logger.NewField("stack", string(debug.Stack())),
			)
		}
		TaskRunsTotal.WithLabelValues(task.Info(), result).Inc()
		TaskDuration.WithLabelValues(task.Info()).Observe(time.Since(start).Seconds())
	}()

	err = task.Do(ctx)
	if err != nil {
		result = "error"
	}
	return err
}
