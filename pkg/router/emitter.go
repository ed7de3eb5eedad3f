package router

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/radiant/router/pkg/telemetry/metrics"
)

// EmitterConfig contains configuration for the decision emitter.
type EmitterConfig struct {
	// Buffer is the size of the async emission channel.
	// Default: 256
	Buffer int

	// WriteTimeout bounds a single sink write.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultEmitterConfig returns the default emitter configuration.
func DefaultEmitterConfig() *EmitterConfig {
	return &EmitterConfig{
		Buffer:       256,
		WriteTimeout: 5 * time.Second,
	}
}

// Emitter forwards decisions to the sink asynchronously so emission
// never blocks a routing call. Sink failures and buffer overflows are
// logged and counted, never raised: the decision has already been
// computed and returned to the caller.
type Emitter struct {
	sink    DecisionSink
	config  *EmitterConfig
	ch      chan *Decision
	wg      sync.WaitGroup
	logger  *slog.Logger
	metrics *metrics.Collector

	closeOnce sync.Once
}

// NewEmitter creates an emitter over the sink and starts its worker.
func NewEmitter(sink DecisionSink, config *EmitterConfig, logger *slog.Logger, collector *metrics.Collector) *Emitter {
	if config == nil {
		config = DefaultEmitterConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Emitter{
		sink:    sink,
		config:  config,
		ch:      make(chan *Decision, config.Buffer),
		logger:  logger.With("component", "router.emitter"),
		metrics: collector,
	}

	e.wg.Add(1)
	go e.worker()

	return e
}

// Emit enqueues a decision for async recording. Never blocks; if the
// buffer is full the decision is dropped and counted.
func (e *Emitter) Emit(decision *Decision) {
	select {
	case e.ch <- decision:
	default:
		if e.metrics != nil {
			e.metrics.RecordEmissionDropped()
		}
		e.logger.Warn("emission buffer full, dropping decision",
			"decision_id", decision.ID,
			"model", decision.ModelID,
		)
	}
}

// Close stops the worker after draining buffered decisions.
func (e *Emitter) Close() {
	e.closeOnce.Do(func() {
		close(e.ch)
		e.wg.Wait()
	})
}

func (e *Emitter) worker() {
	defer e.wg.Done()

	for decision := range e.ch {
		ctx, cancel := context.WithTimeout(context.Background(), e.config.WriteTimeout)
		err := e.sink.Record(ctx, decision)
		cancel()

		if err != nil {
			if e.metrics != nil {
				e.metrics.RecordEmissionFailure()
			}
			e.logger.Error("decision emission failed",
				"decision_id", decision.ID,
				"model", decision.ModelID,
				"error", err,
			)
			continue
		}

		e.logger.Debug("decision recorded",
			"decision_id", decision.ID,
			"model", decision.ModelID,
			"strategy", decision.Strategy,
		)
	}
}
