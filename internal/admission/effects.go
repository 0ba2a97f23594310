package admission

import (
	"context"

	"go.uber.org/zap"

	"github.com/ksb-dev-1/careerly-new/internal/cache"
	"github.com/ksb-dev-1/careerly-new/internal/notify"
)

// Effect is a side effect to perform after the transactional core commits.
// Effects are best-effort: the domain state is already durable when they run.
type Effect interface {
	effect()
}

// NotifyEffect asks for a templated email to a recipient.
type NotifyEffect struct {
	Kind notify.Kind
	To   string
	Data notify.TemplateData
}

func (NotifyEffect) effect() {}

// InvalidateEffect asks for cache tags to be marked stale.
type InvalidateEffect struct {
	Tags []string
}

func (InvalidateEffect) effect() {}

// Dispatcher executes effects after a commit, catching and logging failures
// independently per effect. A failed effect never surfaces to the end user.
type Dispatcher struct {
	Notifier notify.Dispatcher
	Cache    cache.Invalidator
	Log      *zap.Logger
}

// NewDispatcher wires a Dispatcher. Logger falls back to a nop logger.
func NewDispatcher(notifier notify.Dispatcher, invalidator cache.Invalidator, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{Notifier: notifier, Cache: invalidator, Log: log}
}

// Run performs each effect in order. Failures are logged and suppressed;
// there is no retry.
func (d *Dispatcher) Run(ctx context.Context, effects []Effect) {
	for _, e := range effects {
		switch eff := e.(type) {
		case NotifyEffect:
			if d.Notifier == nil {
				continue
			}
			if err := d.Notifier.Send(ctx, eff.Kind, eff.To, eff.Data); err != nil {
				d.Log.Error("notification delivery failed",
					zap.String("kind", string(eff.Kind)),
					zap.String("to", eff.To),
					zap.Error(err))
			}
		case InvalidateEffect:
			if d.Cache == nil {
				continue
			}
			if err := d.Cache.MarkStale(ctx, eff.Tags...); err != nil {
				d.Log.Error("cache invalidation failed",
					zap.Strings("tags", eff.Tags),
					zap.Error(err))
			}
		}
	}
}
