package engine

import (
	"context"

	"github.com/yanun0323/logs"

	"tradecore/internal/bus"
	"tradecore/internal/errors"
	"tradecore/internal/journal"
	"tradecore/internal/model/event"
	"tradecore/internal/model/order"
	"tradecore/internal/obs"
	"tradecore/pkg/exception"
)

// command is one unit of work for the engine goroutine. Exactly one field
// is set.
type command struct {
	submit *order.Order
	list   *order.List
	event  event.OrderEvent
	purge  *uint64
}

// Enqueue hands ev to the goroutine running Run. It never blocks.
func (e *Engine) Enqueue(ev event.OrderEvent) error {
	if ev == nil {
		return errors.Wrap(exception.ErrNilInstance, "event")
	}
	return e.publish(command{event: ev})
}

// EnqueueSubmit queues a new order for Submit.
func (e *Engine) EnqueueSubmit(o *order.Order) error {
	if o == nil {
		return errors.Wrap(exception.ErrNilInstance, "order")
	}
	return e.publish(command{submit: o})
}

func (e *Engine) EnqueueSubmitList(l *order.List) error {
	if l == nil {
		return errors.Wrap(exception.ErrNilInstance, "order list")
	}
	return e.publish(command{list: l})
}

// EnqueuePurge schedules PurgeClosed on the engine goroutine.
func (e *Engine) EnqueuePurge(bufferSecs uint64) error {
	return e.publish(command{purge: &bufferSecs})
}

func (e *Engine) publish(cmd command) error {
	err := e.queue.TryPublish(cmd)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bus.ErrQueueFull):
		e.metrics.IncQueueDrop()
		return errors.Wrapf(exception.ErrEngineQueueFull, "capacity %d", e.queue.Cap())
	case errors.Is(err, bus.ErrQueueClosed):
		e.metrics.IncQueueClosed()
		return exception.ErrEngineStopped
	default:
		return err
	}
}

// Run processes queued commands until ctx is done or Stop was called and the
// queue is drained. Command errors are logged and counted, never retried.
func (e *Engine) Run(ctx context.Context) {
	logs.Infof("engine started, oms: %s, queue: %d", e.cfg.OmsType, e.queue.Cap())
	e.queue.Run(ctx, func(cmd command) {
		if err := e.handle(ctx, cmd); err != nil {
			logs.Errorf("engine command, err: %+v", err)
		}
	})
	logs.Infof("engine stopped, last seq: %d", e.seq.Last())
}

// Stop rejects further commands. Commands already queued still run.
func (e *Engine) Stop() {
	e.queue.Close()
}

func (e *Engine) handle(ctx context.Context, cmd command) error {
	switch {
	case cmd.submit != nil:
		_, err := e.Submit(ctx, cmd.submit)
		return err
	case cmd.list != nil:
		_, err := e.SubmitList(ctx, cmd.list)
		return err
	case cmd.event != nil:
		return e.Process(ctx, cmd.event)
	case cmd.purge != nil:
		orders, positions, err := e.PurgeClosed(*cmd.purge)
		if len(orders)+len(positions) > 0 {
			logs.Infof("engine purged %d orders, %d positions", len(orders), len(positions))
		}
		return err
	default:
		return errors.Wrap(exception.ErrInternal, "empty engine command")
	}
}

// Replay rebuilds state from a journal. Replayed events are not journaled or
// stored again, and sequencing continues after the last replayed record.
// It must run before Run.
func (e *Engine) Replay(ctx context.Context, playback *journal.Playback) (uint64, error) {
	if playback == nil {
		return 0, errors.Wrap(exception.ErrNilInstance, "playback")
	}
	e.replaying = true
	defer func() { e.replaying = false }()

	var applied uint64
	lastSeq, err := playback.Run(ctx, func(h journal.Header, ev event.OrderEvent) error {
		if err := e.Process(ctx, ev); err != nil {
			return errors.Wrapf(err, "replay seq %d", h.Seq)
		}
		applied++
		return nil
	})
	if lastSeq > e.seq.Last() {
		e.seq = obs.NewSequence(lastSeq)
	}
	for _, f := range e.factories {
		e.ResumeFactory(f)
	}
	if err != nil {
		return applied, err
	}
	logs.Infof("engine replayed %d events, last seq: %d", applied, lastSeq)
	return applied, nil
}
