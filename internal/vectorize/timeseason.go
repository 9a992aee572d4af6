package vectorize

import (
	"fmt"
	"time"

	"github.com/jonathan/context-suggester/internal/contextvec"
	"github.com/jonathan/context-suggester/internal/features"
	"github.com/jonathan/context-suggester/internal/fuzzy"
)

// HourFamily grades the hour of day, wrapping across midnight.
var HourFamily = fuzzy.Family{
	Name:   "hour",
	Period: 24,
	Bands: []fuzzy.Band{
		{Name: string(features.TimeLateNight), Lower: -1, PeakStart: 0, PeakEnd: 3, Upper: 5},
		{Name: string(features.TimeEarlyMorning), Lower: 3, PeakStart: 5, PeakEnd: 6.5, Upper: 8},
		{Name: string(features.TimeMorning), Lower: 6.5, PeakStart: 8, PeakEnd: 11, Upper: 13},
		{Name: string(features.TimeAfternoon), Lower: 11, PeakStart: 13, PeakEnd: 16, Upper: 18},
		{Name: string(features.TimeEvening), Lower: 16, PeakStart: 18, PeakEnd: 20, Upper: 21.5},
		{Name: string(features.TimeNight), Lower: 20, PeakStart: 21.5, PeakEnd: 23, Upper: 24},
	},
}

// SeasonFamily grades the zero-based day of year for the northern hemisphere.
var SeasonFamily = fuzzy.Family{
	Name:   "season",
	Period: 365,
	Bands: []fuzzy.Band{
		{Name: string(features.SeasonWinter), Lower: -20, PeakStart: 0, PeakEnd: 70, Upper: 90},
		{Name: string(features.SeasonSpring), Lower: 70, PeakStart: 90, PeakEnd: 162, Upper: 182},
		{Name: string(features.SeasonSummer), Lower: 162, PeakStart: 182, PeakEnd: 254, Upper: 274},
		{Name: string(features.SeasonAutumn), Lower: 254, PeakStart: 274, PeakEnd: 345, Upper: 365},
	},
}

var southernSeasons = map[features.Key]features.Key{
	features.SeasonSpring: features.SeasonAutumn,
	features.SeasonAutumn: features.SeasonSpring,
	features.SeasonSummer: features.SeasonWinter,
	features.SeasonWinter: features.SeasonSummer,
}

// EventRule marks a calendar date. Feature may be empty for a date that is only a holiday.
type EventRule struct {
	Name       string
	Month      time.Month
	Day        int
	Feature    features.Key
	Activation float64
	Holiday    bool
}

// Matches reports whether the rule applies to t's calendar date.
func (r EventRule) Matches(t time.Time) bool {
	return t.Month() == r.Month && t.Day() == r.Day
}

// Calendar holds the locale rules for day type and calendar events.
type Calendar struct {
	Weekend  []time.Weekday
	Events   []EventRule
	Latitude float64
}

// DefaultCalendar returns a Friday weekend with the fixed-date observances.
// Mourning days follow the lunar calendar and are only available through configuration.
func DefaultCalendar() Calendar {
	var events []EventRule
	events = append(events, EventRule{Name: "valentine", Month: time.February, Day: 14, Feature: features.RomanticEvent, Activation: 1})
	for day := 21; day <= 24; day++ {
		events = append(events,
			EventRule{Name: "nowruz", Month: time.March, Day: day, Feature: features.NationalFestival, Activation: 1, Holiday: true},
			EventRule{Name: "nowruz", Month: time.March, Day: day, Feature: features.CulturalTradition, Activation: 1, Holiday: true},
		)
	}
	events = append(events,
		EventRule{Name: "republic-day", Month: time.April, Day: 1, Feature: features.NationalFestival, Activation: 1, Holiday: true},
		EventRule{Name: "sizdah-bedar", Month: time.April, Day: 2, Feature: features.CulturalTradition, Activation: 1, Holiday: true},
		EventRule{Name: "yalda", Month: time.December, Day: 21, Feature: features.CulturalTradition, Activation: 1},
	)
	return Calendar{Weekend: []time.Weekday{time.Friday}, Events: events}
}

// Validate checks every event rule names a real date and an event feature.
func (c Calendar) Validate() error {
	for i, r := range c.Events {
		if r.Month < time.January || r.Month > time.December {
			return &CalendarError{Index: i, Message: fmt.Sprintf("invalid month %d", r.Month)}
		}
		// February 29 is allowed
		probe := time.Date(2024, r.Month, r.Day, 0, 0, 0, 0, time.UTC)
		if r.Day < 1 || probe.Month() != r.Month {
			return &CalendarError{Index: i, Message: fmt.Sprintf("invalid day %d for %s", r.Day, r.Month)}
		}
		if r.Feature != "" {
			if g, ok := features.GroupOf(r.Feature); !ok || g != features.GroupEvents {
				return &CalendarError{Index: i, Message: fmt.Sprintf("feature %q is not an event feature", r.Feature)}
			}
		}
		if r.Activation < 0 || r.Activation > 1 {
			return &CalendarError{Index: i, Message: "activation must be within [0, 1]"}
		}
	}
	return nil
}

// IsWeekend reports whether t falls on a configured weekend day.
func (c Calendar) IsWeekend(t time.Time) bool {
	for _, d := range c.Weekend {
		if t.Weekday() == d {
			return true
		}
	}
	return false
}

// IsHoliday reports whether any rule marks t as a holiday.
func (c Calendar) IsHoliday(t time.Time) bool {
	for _, r := range c.Events {
		if r.Holiday && r.Matches(t) {
			return true
		}
	}
	return false
}

// Time produces the time, day, season and events features for ts. ts should already be in the
// user's local time zone.
func Time(ts time.Time, cal Calendar) contextvec.Partial {
	values := make(map[features.Key]float64, 18)

	hour := float64(ts.Hour()) + float64(ts.Minute())/60
	for name, v := range fuzzy.Evaluate(hour, HourFamily) {
		values[features.Key(name)] = v
	}

	for name, v := range fuzzy.Evaluate(float64(ts.YearDay()-1), SeasonFamily) {
		k := features.Key(name)
		if cal.Latitude < 0 {
			k = southernSeasons[k]
		}
		values[k] = v
	}

	weekend := cal.IsWeekend(ts)
	holiday := cal.IsHoliday(ts)
	values[features.DayWeekend] = boolActivation(weekend)
	values[features.DayHoliday] = boolActivation(holiday)
	values[features.DayHolidayEve] = boolActivation(cal.IsHoliday(ts.AddDate(0, 0, 1)))
	values[features.DayWorkday] = boolActivation(!weekend && !holiday)

	for _, k := range features.KeysIn(features.GroupEvents) {
		values[k] = 0
	}
	for _, r := range cal.Events {
		if r.Feature == "" || !r.Matches(ts) {
			continue
		}
		if a := fuzzy.Clamp01(r.Activation); a > values[r.Feature] {
			values[r.Feature] = a
		}
	}

	return contextvec.Partial{
		Source: SourceTime,
		Groups: []features.Group{features.GroupTime, features.GroupDay, features.GroupSeason, features.GroupEvents},
		Values: values,
	}
}

func boolActivation(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// CalendarError reports an invalid event rule.
type CalendarError struct {
	Index   int
	Message string
}

func (e *CalendarError) Error() string {
	return fmt.Sprintf("calendar event %d: %s", e.Index, e.Message)
}
