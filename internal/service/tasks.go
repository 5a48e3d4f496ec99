package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskRunner ejecuta trabajo en segundo plano desacoplado del request.
// Un panic en una tarea se registra y no afecta a las demás.
type TaskRunner struct {
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewTaskRunner(logger *zap.Logger) *TaskRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskRunner{logger: logger}
}

// Go lanza fn con un contexto que no se cancela al terminar el request.
func (r *TaskRunner) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	taskCtx := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		log := r.logger.With(zap.String("task", name), zap.String("task_id", uuid.NewString()))
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("task panic", zap.Any("panic", rec), zap.Stack("stack"))
			}
		}()
		if err := fn(taskCtx); err != nil {
			log.Warn("task failed", zap.Error(err))
			return
		}
		log.Debug("task finished")
	}()
}

// Wait bloquea hasta que terminen todas las tareas lanzadas.
func (r *TaskRunner) Wait() {
	r.wg.Wait()
}

// WaitTimeout devuelve false si las tareas no terminaron a tiempo.
func (r *TaskRunner) WaitTimeout(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
