package genetic

import (
	"fmt"
)

// Observation is what the game reports for one unit on one tick.
type Observation struct {
	TargetDeltaX float64 // Horizontal offset of the target.
	TargetDeltaY float64 // Vertical offset between the unit and the target.
}

// Bridge maps observations to decisions through a unit's network. It holds
// only constants and is safe for concurrent use.
type Bridge struct {
	cfg BridgeConfig
}

// NewBridge creates a bridge with the given normalization parameters.
func NewBridge(cfg BridgeConfig) *Bridge {
	return &Bridge{cfg: cfg}
}

// Inputs normalizes an observation into network inputs: each offset is
// clamped to its range, scaled to [-1, 1] and multiplied by ScaleFactor.
func (b *Bridge) Inputs(obs Observation) []float64 {
	return []float64{
		Normalize(obs.TargetDeltaX, b.cfg.ClampX) * b.cfg.ScaleFactor,
		Normalize(obs.TargetDeltaY, b.cfg.ClampY) * b.cfg.ScaleFactor,
	}
}

// Decide activates the unit's network and reports whether the unit should
// act. The output must be strictly above the threshold.
func (b *Bridge) Decide(u *Unit, obs Observation) (bool, error) {
	if u == nil || u.Network == nil {
		return false, fmt.Errorf("unit has no network")
	}
	outputs, err := u.Network.Activate(b.Inputs(obs))
	if err != nil {
		return false, fmt.Errorf("activation failed for unit %d: %w", u.Index, err)
	}
	return outputs[0] > b.cfg.ActThreshold, nil
}
