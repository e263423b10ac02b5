package fsm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/milk9111/entitystate/ecs"
)

// System evaluates every entity carrying a Machine once per tick.
type System struct {
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
}

// Option configures a System.
type Option func(*System)

// WithLogger sets the logger for transition records and contract violations.
func WithLogger(logger *slog.Logger) Option {
	return func(s *System) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracerProvider sets the provider of the evaluation span. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *System) {
		s.tracerProvider = tp
	}
}

// NewSystem returns a System logging to slog.Default unless configured.
func NewSystem(opts ...Option) *System {
	s := &System{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type passStats struct {
	entities    int
	transitions int
	aborted     int
	violations  int
}

// Evaluate runs one evaluation pass. Entities whose machine violates the
// single-state contract or whose triggers cannot be initialised are skipped;
// their errors are returned joined.
func (s *System) Evaluate(ctx context.Context, w *ecs.World) error {
	if w == nil {
		return nil
	}
	start := time.Now()
	_, span := s.startEvaluateSpan(ctx, w.Tick())

	var (
		stats passStats
		errs  []error
	)
	// snapshot: hooks may spawn or despawn entities while we iterate
	for _, e := range w.Query(MachineComponent.Kind().ID()) {
		if !w.IsAlive(e) {
			continue
		}
		inst, ok := ecs.Get(w, e, MachineComponent.Kind())
		if !ok || inst.def == nil {
			continue
		}
		stats.entities++

		def := inst.def
		rec, result, err := def.run(w, e, inst)
		if err != nil {
			stats.violations++
			contractViolations.WithLabelValues(violationReason(err)).Inc()
			s.logger.Error("state machine contract violation",
				"entity", e.String(),
				"machine", def.name,
				"err", err,
			)
			errs = append(errs, err)
			continue
		}

		switch result {
		case resultTransitioned:
			stats.transitions++
			transitionsTotal.WithLabelValues(def.name, rec.From, rec.To).Inc()
			if def.logTransitions {
				s.logger.Info("state transition",
					"entity", e.String(),
					"machine", def.name,
					"from", rec.From,
					"to", rec.To,
					"transition", rec.Transition,
					"tick", rec.Tick,
				)
				w.Events().Push(ecs.Event{Type: TransitionEventType, Target: e, Data: rec})
			}
		case resultAborted:
			stats.aborted++
			transitionsAborted.WithLabelValues(def.name, rec.From, rec.To).Inc()
			s.logger.Debug("transition abandoned after exit hooks",
				"entity", e.String(),
				"machine", def.name,
				"from", rec.From,
				"to", rec.To,
			)
		}
	}

	err := errors.Join(errs...)
	evaluateDuration.Observe(time.Since(start).Seconds())
	endEvaluateSpan(span, stats, err)
	return err
}

// Update implements ecs.System. Errors are already logged by Evaluate.
func (s *System) Update(w *ecs.World) {
	_ = s.Evaluate(context.Background(), w)
}

// Install adds a System and the Done marker cleanup to the scheduler's
// PostUpdate phase and returns the System.
func Install(sched *ecs.Scheduler, opts ...Option) *System {
	return InstallAt(sched, ecs.PostUpdate, opts...)
}

// InstallAt is Install for a caller chosen phase. ClearDoneSystem always runs
// right after the machine system.
func InstallAt(sched *ecs.Scheduler, phase ecs.Phase, opts ...Option) *System {
	s := NewSystem(opts...)
	sched.AddTo(phase, s)
	sched.AddTo(phase, ClearDoneSystem{})
	return s
}
