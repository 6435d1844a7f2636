package actions

import (
	"context"
	"sync"

	"github.com/PixPMusic/gopher-launchkey/internal/host"
	"github.com/rs/zerolog"
)

// Dispatcher receives semantic actions from the surface and runs the
// matching bindings off the event path. It implements host.Actions and
// host.Sequencer.
type Dispatcher struct {
	executor *Executor
	store    *BindingStore
	logger   zerolog.Logger
	calls    chan Call
	wg       sync.WaitGroup
}

// NewDispatcher creates a dispatcher with a queue of size calls
func NewDispatcher(executor *Executor, store *BindingStore, size int, logger zerolog.Logger) *Dispatcher {
	if size <= 0 {
		size = 64
	}
	return &Dispatcher{
		executor: executor,
		store:    store,
		logger:   logger,
		calls:    make(chan Call, size),
	}
}

// SendAction queues a call. It never blocks the surface: a full queue drops
// the call.
func (d *Dispatcher) SendAction(name string, args ...any) {
	call := Call{Name: name, Args: args}
	select {
	case d.calls <- call:
	default:
		d.logger.Warn().Str("action", call.String()).Msg("Action queue full, dropping")
	}
}

// SelectBank forwards a sequencer bank change as an action
func (d *Dispatcher) SelectBank(bank int) {
	d.SendAction(host.ActionSelectBank, bank)
}

// Run executes queued calls until ctx is cancelled, then waits for
// bindings still running in the background
func (d *Dispatcher) Run(ctx context.Context) error {
	defer d.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case call := <-d.calls:
			d.dispatch(call)
		}
	}
}

func (d *Dispatcher) dispatch(call Call) {
	bindings := d.store.Match(call)
	if len(bindings) == 0 {
		d.logger.Debug().Str("action", call.String()).Msg("No binding for action")
		return
	}

	for i := range bindings {
		b := bindings[i]
		if b.WaitForCompletion {
			d.run(&b, call)
			continue
		}
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.run(&b, call)
		}()
	}
}

func (d *Dispatcher) run(b *Binding, call Call) {
	logger := d.logger.With().
		Str("action", call.String()).
		Str("binding", b.Name).
		Str("type", string(b.Type)).
		Logger()

	output, err := d.executor.Execute(b, call)
	if err != nil {
		logger.Warn().Err(err).Str("output", output).Msg("Binding failed")
		return
	}
	logger.Debug().Str("output", output).Msg("Binding executed")
}
