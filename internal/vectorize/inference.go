package vectorize

import (
	"fmt"

	"github.com/jonathan/context-suggester/internal/contextvec"
	"github.com/jonathan/context-suggester/internal/features"
	"github.com/jonathan/context-suggester/internal/fuzzy"
)

// Combine selects how a rule folds its terms into one strength.
type Combine int

const (
	// Constant ignores terms; the rule always fires with strength 1 (a baseline).
	Constant Combine = iota
	// WeightedSum adds weight × term.
	WeightedSum
	// Product multiplies terms, an AND-like trigger.
	Product
	// Max takes the strongest weighted term, an OR-like trigger.
	Max
)

func (c Combine) String() string {
	switch c {
	case Constant:
		return "constant"
	case WeightedSum:
		return "weighted_sum"
	case Product:
		return "product"
	case Max:
		return "max"
	default:
		return fmt.Sprintf("combine(%d)", int(c))
	}
}

// Term reads one upstream feature. Invert uses 1 − c. A zero Weight counts as 1.
type Term struct {
	Key    features.Key
	Weight float64
	Invert bool
}

func (t Term) value(view contextvec.Vector) float64 {
	c := view.Get(t.Key)
	if t.Invert {
		c = 1 - c
	}
	return c
}

func (t Term) weight() float64 {
	if t.Weight == 0 {
		return 1
	}
	return t.Weight
}

// Rule derives one human-context feature from upstream features.
// The rule fires when the combined strength s reaches Threshold and then yields clamp(Gain × s).
type Rule struct {
	Name      string
	Output    features.Key
	Combine   Combine
	Terms     []Term
	Threshold float64
	Gain      float64
}

// Strength folds the rule's terms against view.
func (r Rule) Strength(view contextvec.Vector) float64 {
	switch r.Combine {
	case Constant:
		return 1
	case WeightedSum:
		s := 0.0
		for _, t := range r.Terms {
			s += t.weight() * t.value(view)
		}
		return s
	case Product:
		s := 1.0
		for _, t := range r.Terms {
			s *= t.value(view)
		}
		return s
	case Max:
		s := 0.0
		for _, t := range r.Terms {
			if v := t.weight() * t.value(view); v > s {
				s = v
			}
		}
		return s
	}
	return 0
}

// Apply returns the rule's output activation against view.
func (r Rule) Apply(view contextvec.Vector) float64 {
	s := r.Strength(view)
	if s < r.Threshold {
		return 0
	}
	return fuzzy.Clamp01(r.Gain * s)
}

// InferenceGroups are the groups the inference stage owns.
var InferenceGroups = []features.Group{
	features.GroupMood, features.GroupSocial, features.GroupLocation, features.GroupEnergy,
}

func inferenceGroup(g features.Group) bool {
	for _, ig := range InferenceGroups {
		if g == ig {
			return true
		}
	}
	return false
}

// ValidateRules checks every rule writes an inference feature and reads only upstream features.
func ValidateRules(rules []Rule) error {
	names := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r.Name == "" {
			return &RuleError{Message: "rule has no name"}
		}
		if names[r.Name] {
			return &RuleError{Rule: r.Name, Message: "duplicate rule name"}
		}
		names[r.Name] = true

		g, ok := features.GroupOf(r.Output)
		if !ok || !inferenceGroup(g) {
			return &RuleError{Rule: r.Name, Message: fmt.Sprintf("output %q is not a mood, social, location or energy feature", r.Output)}
		}
		if r.Combine < Constant || r.Combine > Max {
			return &RuleError{Rule: r.Name, Message: fmt.Sprintf("unknown combinator %s", r.Combine)}
		}
		if r.Combine != Constant && len(r.Terms) == 0 {
			return &RuleError{Rule: r.Name, Message: "rule has no terms"}
		}
		if r.Gain < 0 || r.Gain > 1 {
			return &RuleError{Rule: r.Name, Message: "gain must be within [0, 1]"}
		}
		for _, t := range r.Terms {
			tg, ok := features.GroupOf(t.Key)
			if !ok {
				return &RuleError{Rule: r.Name, Message: fmt.Sprintf("unknown term %q", t.Key)}
			}
			if inferenceGroup(tg) {
				return &RuleError{Rule: r.Name, Message: fmt.Sprintf("term %q reads an inferred feature", t.Key)}
			}
		}
	}
	return nil
}

// Infer evaluates rules against the upstream view and produces the mood, social, location and
// energy features. Rules targeting the same feature combine by max.
func Infer(view contextvec.Vector, rules []Rule) (contextvec.Partial, error) {
	if err := ValidateRules(rules); err != nil {
		return contextvec.Partial{}, err
	}

	values := make(map[features.Key]float64, 22)
	for _, g := range InferenceGroups {
		for _, k := range features.KeysIn(g) {
			values[k] = 0
		}
	}
	for _, r := range rules {
		if v := r.Apply(view); v > values[r.Output] {
			values[r.Output] = v
		}
	}

	return contextvec.Partial{
		Source: SourceInference,
		Groups: InferenceGroups,
		Values: values,
	}, nil
}

// RuleError reports a malformed inference rule.
type RuleError struct {
	Rule    string
	Message string
}

func (e *RuleError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("inference rule: %s", e.Message)
	}
	return fmt.Sprintf("inference rule %s: %s", e.Rule, e.Message)
}

func baseline(out features.Key, v float64) Rule {
	return Rule{Name: "baseline-" + string(out), Output: out, Combine: Constant, Gain: v}
}

func when(name string, out features.Key, threshold, gain float64, terms ...features.Key) Rule {
	r := Rule{Name: name, Output: out, Combine: Max, Threshold: threshold, Gain: gain}
	for _, k := range terms {
		r.Terms = append(r.Terms, Term{Key: k})
	}
	return r
}

func both(name string, out features.Key, threshold, gain float64, terms ...features.Key) Rule {
	r := when(name, out, threshold, gain, terms...)
	r.Combine = Product
	return r
}

// DefaultRules returns the built-in human-context decision table.
func DefaultRules() []Rule {
	badWeather := []features.Key{features.WeatherRain, features.WeatherSnow, features.WeatherThunderstorm}

	rules := []Rule{
		baseline(features.MoodCalm, 0.2),
		baseline(features.MoodEnergetic, 0.1),
		baseline(features.MoodHappy, 0.3),
		baseline(features.MoodSad, 0.1),
		baseline(features.MoodThoughtful, 0.1),
		baseline(features.MoodRomantic, 0.1),
		baseline(features.MoodNostalgic, 0.1),
		baseline(features.MoodStressed, 0.1),
		baseline(features.MoodRelaxed, 0.1),

		baseline(features.SocialSolo, 0.3),
		baseline(features.SocialCouple, 0.1),
		baseline(features.SocialFamily, 0.1),
		baseline(features.SocialFriends, 0.1),
		baseline(features.SocialGroup, 0.1),

		baseline(features.LocationIndoor, 0.5),
		baseline(features.LocationHome, 0.3),

		baseline(features.EnergyVeryLow, 0.2),
		baseline(features.EnergyLow, 0.2),
		baseline(features.EnergyMedium, 0.4),
		baseline(features.EnergyHigh, 0.2),
		baseline(features.EnergyVeryHigh, 0.2),

		// mood
		when("rain-calm", features.MoodCalm, 0.5, 0.45, features.WeatherRain),
		when("rain-thoughtful", features.MoodThoughtful, 0.5, 0.4, features.WeatherRain),
		both("rain-evening-calm", features.MoodCalm, 0.25, 0.8, features.WeatherRain, features.TimeEvening),
		when("clear-happy", features.MoodHappy, 0.7, 0.5, features.WeatherClear),
		when("clear-energetic", features.MoodEnergetic, 0.7, 0.35, features.WeatherClear),
		when("late-night-calm", features.MoodCalm, 0.5, 0.55, features.TimeLateNight),
		when("late-night-thoughtful", features.MoodThoughtful, 0.5, 0.4, features.TimeLateNight),
		when("weekend-relaxed", features.MoodRelaxed, 0.5, 0.5, features.DayWeekend, features.DayHoliday),
		both("workday-afternoon-stressed", features.MoodStressed, 0.5, 0.4, features.DayWorkday, features.TimeAfternoon),
		when("festival-happy", features.MoodHappy, 0.5, 0.6, features.NationalFestival),
		when("mourning-sad", features.MoodSad, 0.5, 0.8, features.NationalMourning),
		when("romantic-mood", features.MoodRomantic, 0.5, 0.6, features.RomanticEvent),
		when("tradition-nostalgic", features.MoodNostalgic, 0.5, 0.5, features.CulturalTradition),

		// social
		when("weekend-family", features.SocialFamily, 0.5, 0.35, features.DayWeekend, features.DayHoliday),
		when("weekend-friends", features.SocialFriends, 0.5, 0.3, features.DayWeekend),
		when("evening-family", features.SocialFamily, 0.5, 0.25, features.TimeEvening),
		when("holiday-group", features.SocialGroup, 0.5, 0.4, features.DayHoliday),
		when("romantic-couple", features.SocialCouple, 0.5, 0.6, features.RomanticEvent),
		when("late-night-solo", features.SocialSolo, 0.5, 0.5, features.TimeLateNight),

		// location
		{
			Name:    "fair-weather-outdoor",
			Output:  features.LocationOutdoor,
			Combine: Product,
			Terms: []Term{
				{Key: features.WeatherRain, Invert: true},
				{Key: features.WeatherSnow, Invert: true},
				{Key: features.WeatherThunderstorm, Invert: true},
			},
			Gain: 0.5,
		},
		when("bad-weather-indoor", features.LocationIndoor, 0.5, 0.75, badWeather...),
		when("bad-weather-home", features.LocationHome, 0.5, 0.55, badWeather...),
		both("rain-evening-indoor", features.LocationIndoor, 0.25, 0.9, features.WeatherRain, features.TimeEvening),
		both("clear-calm-outdoor", features.LocationOutdoor, 0.35, 0.75, features.WeatherClear, features.WindCalm),
		when("harsh-temperature-indoor", features.LocationIndoor, 0.5, 0.7, features.TempExtremeCold, features.TempHot),
		when("late-night-home", features.LocationHome, 0.5, 0.6, features.TimeLateNight),

		// energy
		when("morning-high", features.EnergyHigh, 0.5, 0.5, features.TimeMorning),
		both("clear-morning-very-high", features.EnergyVeryHigh, 0.5, 0.5, features.WeatherClear, features.TimeMorning),
		when("afternoon-medium", features.EnergyMedium, 0.5, 0.5, features.TimeAfternoon),
		when("night-low", features.EnergyLow, 0.5, 0.5, features.TimeNight),
		when("late-night-very-low", features.EnergyVeryLow, 0.5, 0.7, features.TimeLateNight),
		when("heat-low", features.EnergyLow, 0.5, 0.5, features.TempHot),
	}
	return rules
}
