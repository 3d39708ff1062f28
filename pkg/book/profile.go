package book

import (
	"fmt"
	"sort"
	"time"
)

// Profile holds the tunable constants of the page-turn animation.
type Profile struct {
	Name string

	// Damping factors for the primary bend (rotation Y) and the trailing fold
	// (rotation X). The fold is damped more slowly so the crease lags the turn.
	Easing     float32
	FoldEasing float32

	InsideCurve  float32
	OutsideCurve float32
	TurningCurve float32

	// FanDegrees is added per page index to the target rotation while the
	// book is open, so stacked pages splay instead of overlapping.
	FanDegrees float32

	// TurnWindow is the duration over which turn progress rises and falls.
	TurnWindow time.Duration

	// Tabs enables the per-page navigation tabs.
	Tabs bool
}

// Baseline is the canonical profile.
func Baseline() Profile {
	return Profile{
		Name:         "baseline",
		Easing:       0.8,
		FoldEasing:   0.6,
		InsideCurve:  0.05,
		OutsideCurve: 0.02,
		TurningCurve: 0.03,
		FanDegrees:   0.2,
		TurnWindow:   200 * time.Millisecond,
		Tabs:         true,
	}
}

// Curl is a slower profile with a more pronounced page curl and no tabs.
func Curl() Profile {
	return Profile{
		Name:         "curl",
		Easing:       0.6,
		FoldEasing:   0.3,
		InsideCurve:  0.18,
		OutsideCurve: 0.05,
		TurningCurve: 0.09,
		FanDegrees:   0.8,
		TurnWindow:   400 * time.Millisecond,
		Tabs:         false,
	}
}

// BuiltinProfiles returns the profiles shipped with the program, keyed by name.
func BuiltinProfiles() map[string]Profile {
	return map[string]Profile{
		"baseline": Baseline(),
		"curl":     Curl(),
	}
}

// ProfileNames returns the sorted keys of profiles.
func ProfileNames(profiles map[string]Profile) []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate reports a profile that would make the animation misbehave.
func (p Profile) Validate() error {
	if p.Easing <= 0 || p.FoldEasing <= 0 {
		return fmt.Errorf("profile %q: easing factors must be positive", p.Name)
	}
	if p.TurnWindow <= 0 {
		return fmt.Errorf("profile %q: turn window must be positive", p.Name)
	}
	return nil
}
