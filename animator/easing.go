package animator

import (
	"fmt"
	"sort"

	"github.com/fogleman/ease"
)

// An Easing maps an elapsed fraction in [0, 1] to an animated value.
type Easing func(t float64) float64

// AccelerateDecelerate starts and ends slowly, speeding up in the middle.
var AccelerateDecelerate Easing = ease.InOutSine

var easings = map[string]Easing{
	"linear":     ease.Linear,
	"inOutSine":  ease.InOutSine,
	"inQuad":     ease.InQuad,
	"outQuad":    ease.OutQuad,
	"inOutQuad":  ease.InOutQuad,
	"inCubic":    ease.InCubic,
	"outCubic":   ease.OutCubic,
	"inOutCubic": ease.InOutCubic,
	"outBack":    ease.OutBack,
	"outBounce":  ease.OutBounce,
}

// EasingByName looks up a named easing. An empty name gives AccelerateDecelerate.
func EasingByName(name string) (Easing, error) {
	if name == "" {
		return AccelerateDecelerate, nil
	}
	e, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("animator: unknown easing %q", name)
	}
	return e, nil
}

// EasingNames lists the names accepted by EasingByName.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
