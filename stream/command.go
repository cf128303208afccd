package stream

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/matt-g-everett/clusteranim/cluster"
	"github.com/matt-g-everett/clusteranim/geo"
)

// CommandRemove takes placemarks off the map.
const CommandRemove = "remove"

// maxDurationMs is the longest duration that fits in a time.Duration.
const maxDurationMs = math.MaxInt64 / int64(time.Millisecond)

// Command asks for placemarks to be animated or removed.
//
// For pointToBunch, To holds one target per id and Center optionally fixes
// the point the placemarks fan out from. For bunchToPoint and pointToPoint,
// To holds the single target. For remove, only IDs is used.
type Command struct {
	Type       string      `json:"type"`
	IDs        []string    `json:"ids"`
	To         []geo.Point `json:"to"`
	Center     *geo.Point  `json:"center,omitempty"`
	DurationMs int64       `json:"durationMs,omitempty"`
}

// DecodeCommand parses and checks a JSON command.
func DecodeCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return cmd, fmt.Errorf("decode command: %w", err)
	}
	return cmd, cmd.Validate()
}

// Validate checks that the command is well formed.
func (c Command) Validate() error {
	if c.DurationMs < 0 {
		return fmt.Errorf("command %s: negative duration", c.Type)
	}
	if c.DurationMs > maxDurationMs {
		return fmt.Errorf("command %s: duration %dms too long", c.Type, c.DurationMs)
	}

	switch c.Type {
	case cluster.ShapePointToBunch:
		// Placemark and target count mismatches are reported by the cluster package.
		return nil
	case cluster.ShapeBunchToPoint:
		if len(c.To) != 1 {
			return fmt.Errorf("command %s: want 1 target, got %d", c.Type, len(c.To))
		}
	case cluster.ShapePointToPoint:
		if len(c.IDs) != 1 || len(c.To) != 1 {
			return fmt.Errorf("command %s: want 1 id and 1 target, got %d and %d", c.Type, len(c.IDs), len(c.To))
		}
	case CommandRemove:
		if len(c.IDs) == 0 {
			return fmt.Errorf("command %s: no ids", c.Type)
		}
	default:
		return fmt.Errorf("unknown command type %q", c.Type)
	}
	return nil
}

// Duration returns the requested duration, or fallback if none was given.
func (c Command) Duration(fallback time.Duration) time.Duration {
	if c.DurationMs == 0 {
		return fallback
	}
	return time.Duration(c.DurationMs) * time.Millisecond
}
