// Tick orchestration: the ordered per-tick pipeline and the wall-clock
// runner that drives it in production.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// tickStep is one named stage of the per-tick pipeline.
type tickStep struct {
	name string
	fn   func(tick uint64) error
}

// ProcessTick advances the world by one tick, running every stage in a
// fixed order. A stage error aborts the tick; steps already run keep their
// effects, so ticks are not transactional across stages.
func (s *Simulation) ProcessTick() error {
	s.mu.Lock()
	s.tick++
	tick := s.tick
	s.emit(EventTick, "", ActorSystem, map[string]any{"tick": tick})

	steps := []tickStep{
		{"supply_burn", s.processSupplyBurn},
		{"transit", s.processShipments},
		{"maintenance", s.processMaintenance},
		{"contracts", s.processContractDeadlines},
		{"field_regen", s.processFieldRegen},
		{"stockpile_decay", s.processStockpileDecay},
		{"daily_reset", s.processDailyReset},
		{"advanced_orders", s.processAdvancedOrders},
		{"intel_gc", s.processIntelGC},
		{"calendar", s.processCalendar},
	}

	var stepErr error
	for _, st := range steps {
		if err := st.fn(tick); err != nil {
			stepErr = fmt.Errorf("tick %d step %s: %w", tick, st.name, err)
			break
		}
	}

	evts := s.takePending()
	s.mu.Unlock()
	s.deliver(evts)
	return stepErr
}

// Runner drives the simulation on a wall-clock interval.
type Runner struct {
	sim    *Simulation
	log    *slog.Logger
	cancel context.CancelFunc
	done   chan struct{}

	// OnTick fires after each successful tick (autosave, broadcast).
	OnTick func(tick uint64)
}

// NewRunner creates a runner over the simulation.
func NewRunner(sim *Simulation, log *slog.Logger) *Runner {
	return &Runner{sim: sim, log: log}
}

// Start launches the tick loop. Interval comes from tuning; a zero or
// negative interval is clamped to one second for tests.
func (r *Runner) Start(ctx context.Context) {
	interval := time.Duration(r.sim.Tuning().TickIntervalSec) * time.Second
	if interval <= 0 {
		interval = time.Second
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		r.log.Info("tick loop started", "interval", interval)
		for {
			select {
			case <-ctx.Done():
				r.log.Info("tick loop stopped")
				return
			case <-ticker.C:
				start := time.Now()
				if err := r.sim.ProcessTick(); err != nil {
					r.log.Error("tick failed", "error", err)
					continue
				}
				tick := r.sim.CurrentTick()
				r.log.Debug("tick processed", "tick", tick, "elapsed", time.Since(start))
				if r.OnTick != nil {
					r.OnTick(tick)
				}
			}
		}
	}()
}

// Stop halts the loop and waits for the in-flight tick to finish.
func (r *Runner) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}
