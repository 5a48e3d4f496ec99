package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"rx-line/internal/domain"
	"rx-line/internal/repository"
)

var ErrInvalidEvent = errors.New("webhook event invalid")

// EventHandler atiende cada tipo de evento soportado.
type EventHandler interface {
	HandleText(ctx context.Context, ev domain.WebhookEvent) error
	HandleImage(ctx context.Context, ev domain.WebhookEvent) error
	HandlePostback(ctx context.Context, ev domain.WebhookEvent) error
}

// EventRouter reparte los eventos de un lote, cada uno en su propia tarea.
type EventRouter struct {
	handler EventHandler
	dedup   repository.EventDeduper
	tasks   *TaskRunner
	logger  *zap.Logger
}

func NewEventRouter(handler EventHandler, dedup repository.EventDeduper, tasks *TaskRunner, logger *zap.Logger) *EventRouter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tasks == nil {
		tasks = NewTaskRunner(logger)
	}
	return &EventRouter{handler: handler, dedup: dedup, tasks: tasks, logger: logger}
}

// Dispatch lanza una tarea por evento y devuelve sin esperar.
// Un evento malformado no afecta al resto del lote.
func (r *EventRouter) Dispatch(ctx context.Context, events []json.RawMessage) int {
	for _, raw := range events {
		r.tasks.Go(ctx, "webhook_event", func(ctx context.Context) error {
			var ev domain.WebhookEvent
			if err := json.Unmarshal(raw, &ev); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
			}
			if !r.firstSeen(ctx, ev) {
				r.logger.Info("duplicate event skipped",
					zap.String("event_id", ev.WebhookEventID),
					zap.Bool("redelivery", ev.IsRedelivery()),
				)
				return nil
			}
			return r.Route(ctx, ev)
		})
	}
	return len(events)
}

// Route ejecuta el handler del evento en la goroutine actual.
func (r *EventRouter) Route(ctx context.Context, ev domain.WebhookEvent) error {
	switch ev.Type {
	case domain.EventTypeMessage:
		if ev.Message == nil {
			return nil
		}
		switch ev.Message.Type {
		case domain.MessageTypeText:
			return r.handler.HandleText(ctx, ev)
		case domain.MessageTypeImage:
			return r.handler.HandleImage(ctx, ev)
		}
	case domain.EventTypePostback:
		return r.handler.HandlePostback(ctx, ev)
	}
	r.logger.Debug("event ignored", zap.String("type", ev.Type), zap.String("event_id", ev.WebhookEventID))
	return nil
}

// Wait bloquea hasta que terminen las tareas en curso.
func (r *EventRouter) Wait() {
	r.tasks.Wait()
}

func (r *EventRouter) firstSeen(ctx context.Context, ev domain.WebhookEvent) bool {
	if r.dedup == nil || ev.WebhookEventID == "" {
		return true
	}
	ok, err := r.dedup.FirstSeen(ctx, ev.WebhookEventID)
	if err != nil {
		r.logger.Warn("event dedup failed", zap.Error(err), zap.String("event_id", ev.WebhookEventID))
		return true
	}
	return ok
}
