package perf

import (
	"context"
	"time"
)

// ThermalState is the operational readiness tier of a self-hosted
// model's serving endpoint.
type ThermalState string

const (
	// ThermalOff means the endpoint is not running at all.
	ThermalOff ThermalState = "OFF"

	// ThermalCold means the endpoint must load weights before serving.
	ThermalCold ThermalState = "COLD"

	// ThermalWarm means the endpoint is running but not recently used.
	ThermalWarm ThermalState = "WARM"

	// ThermalHot means the endpoint is serving and ready.
	ThermalHot ThermalState = "HOT"

	// ThermalAutomatic means the endpoint manages its own scaling.
	ThermalAutomatic ThermalState = "AUTOMATIC"

	// ThermalUnknown is used for externally-hosted candidates, which
	// carry no thermal state.
	ThermalUnknown ThermalState = ""
)

// Latency penalties added to a self-hosted candidate's average latency
// before scoring. COLD reflects weight loading; OFF additionally needs
// the endpoint provisioned. These values are pinned by test fixtures.
const (
	PenaltyOff  = 60 * time.Second
	PenaltyCold = 30 * time.Second
	PenaltyWarm = 2 * time.Second
)

// Penalty returns the latency penalty for the thermal state.
func (s ThermalState) Penalty() time.Duration {
	switch s {
	case ThermalOff:
		return PenaltyOff
	case ThermalCold:
		return PenaltyCold
	case ThermalWarm:
		return PenaltyWarm
	default:
		return 0
	}
}

// ThermalGateway reports and manages thermal state for self-hosted
// models. It is an external collaborator; the routing engine only
// consults it and occasionally fires a warm-up hint.
type ThermalGateway interface {
	// GetThermalState returns the current thermal state for a model.
	GetThermalState(ctx context.Context, modelID string) (ThermalState, error)

	// WarmUp requests the model be kept warm for the given duration.
	// Fire-and-forget from the router's perspective; never awaited.
	WarmUp(ctx context.Context, modelID string, duration time.Duration) error
}
