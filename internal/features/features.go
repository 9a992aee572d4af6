// Package features defines the closed feature vocabulary of the context vector and its groups.
package features

import (
	"fmt"
	"sort"
)

// Key identifies one dimension of the context vector.
type Key string

// Group is a named cluster of keys that share a weighting multiplier at scoring time.
type Group string

// Feature groups
const (
	GroupTemp     Group = "temp"
	GroupWeather  Group = "weather"
	GroupHumidity Group = "humidity"
	GroupWind     Group = "wind"
	GroupTime     Group = "time"
	GroupDay      Group = "day"
	GroupSeason   Group = "season"
	GroupEvents   Group = "events"
	GroupSocial   Group = "social"
	GroupMood     Group = "mood"
	GroupLocation Group = "location"
	GroupEnergy   Group = "energy"
)

// Temperature
const (
	TempExtremeCold Key = "temp_extreme_cold"
	TempCold        Key = "temp_cold"
	TempCool        Key = "temp_cool"
	TempWarm        Key = "temp_warm"
	TempHot         Key = "temp_hot"
)

// Weather condition
const (
	WeatherClear        Key = "weather_clear"
	WeatherPartlyCloudy Key = "weather_partly_cloudy"
	WeatherCloudy       Key = "weather_cloudy"
	WeatherFog          Key = "weather_fog"
	WeatherDrizzle      Key = "weather_drizzle"
	WeatherRain         Key = "weather_rain"
	WeatherRainShower   Key = "weather_rain_shower"
	WeatherSnow         Key = "weather_snow"
	WeatherSnowShower   Key = "weather_snow_shower"
	WeatherThunderstorm Key = "weather_thunderstorm"
)

// Humidity
const (
	HumidityVeryDry     Key = "humidity_very_dry"
	HumidityDry         Key = "humidity_dry"
	HumidityComfortable Key = "humidity_comfortable"
	HumidityHumid       Key = "humidity_humid"
	HumidityVeryHumid   Key = "humidity_very_humid"
)

// Wind
const (
	WindCalm   Key = "wind_calm"
	WindBreeze Key = "wind_breeze"
	WindWindy  Key = "wind_windy"
	WindStrong Key = "wind_strong"
	WindStorm  Key = "wind_storm"
)

// Time of day
const (
	TimeLateNight    Key = "time_late_night"
	TimeEarlyMorning Key = "time_early_morning"
	TimeMorning      Key = "time_morning"
	TimeAfternoon    Key = "time_afternoon"
	TimeEvening      Key = "time_evening"
	TimeNight        Key = "time_night"
)

// Day type
const (
	DayWeekend    Key = "day_weekend"
	DayHoliday    Key = "day_holiday"
	DayHolidayEve Key = "day_holiday_eve"
	DayWorkday    Key = "day_workday"
)

// Season
const (
	SeasonSpring Key = "season_spring"
	SeasonSummer Key = "season_summer"
	SeasonAutumn Key = "season_autumn"
	SeasonWinter Key = "season_winter"
)

// Calendar events
const (
	RomanticEvent     Key = "romantic_event"
	NationalFestival  Key = "national_festival"
	NationalMourning  Key = "national_mourning"
	CulturalTradition Key = "cultural_tradition"
)

// Social
const (
	SocialSolo    Key = "social_solo"
	SocialCouple  Key = "social_couple"
	SocialFamily  Key = "social_family"
	SocialFriends Key = "social_friends"
	SocialGroup   Key = "social_group"
)

// Mood
const (
	MoodCalm       Key = "mood_calm"
	MoodEnergetic  Key = "mood_energetic"
	MoodHappy      Key = "mood_happy"
	MoodSad        Key = "mood_sad"
	MoodThoughtful Key = "mood_thoughtful"
	MoodRomantic   Key = "mood_romantic"
	MoodNostalgic  Key = "mood_nostalgic"
	MoodStressed   Key = "mood_stressed"
	MoodRelaxed    Key = "mood_relaxed"
)

// Location
const (
	LocationIndoor  Key = "location_indoor"
	LocationOutdoor Key = "location_outdoor"
	LocationHome    Key = "location_home"
)

// Energy
const (
	EnergyVeryLow  Key = "energy_very_low"
	EnergyLow      Key = "energy_low"
	EnergyMedium   Key = "energy_medium"
	EnergyHigh     Key = "energy_high"
	EnergyVeryHigh Key = "energy_very_high"
)

// vocabulary lists every group with its keys in canonical order.
var vocabulary = []struct {
	group Group
	keys  []Key
}{
	{GroupTemp, []Key{TempExtremeCold, TempCold, TempCool, TempWarm, TempHot}},
	{GroupWeather, []Key{
		WeatherClear, WeatherPartlyCloudy, WeatherCloudy, WeatherFog, WeatherDrizzle,
		WeatherRain, WeatherRainShower, WeatherSnow, WeatherSnowShower, WeatherThunderstorm,
	}},
	{GroupHumidity, []Key{HumidityVeryDry, HumidityDry, HumidityComfortable, HumidityHumid, HumidityVeryHumid}},
	{GroupWind, []Key{WindCalm, WindBreeze, WindWindy, WindStrong, WindStorm}},
	{GroupTime, []Key{TimeLateNight, TimeEarlyMorning, TimeMorning, TimeAfternoon, TimeEvening, TimeNight}},
	{GroupDay, []Key{DayWeekend, DayHoliday, DayHolidayEve, DayWorkday}},
	{GroupSeason, []Key{SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter}},
	{GroupEvents, []Key{RomanticEvent, NationalFestival, NationalMourning, CulturalTradition}},
	{GroupSocial, []Key{SocialSolo, SocialCouple, SocialFamily, SocialFriends, SocialGroup}},
	{GroupMood, []Key{
		MoodCalm, MoodEnergetic, MoodHappy, MoodSad, MoodThoughtful,
		MoodRomantic, MoodNostalgic, MoodStressed, MoodRelaxed,
	}},
	{GroupLocation, []Key{LocationIndoor, LocationOutdoor, LocationHome}},
	{GroupEnergy, []Key{EnergyVeryLow, EnergyLow, EnergyMedium, EnergyHigh, EnergyVeryHigh}},
}

var (
	allKeys   []Key
	allGroups []Group
	groupOf   map[Key]Group
	position  map[Key]int
	byGroup   map[Group][]Key
)

func init() {
	groupOf = make(map[Key]Group)
	position = make(map[Key]int)
	byGroup = make(map[Group][]Key)
	for _, entry := range vocabulary {
		allGroups = append(allGroups, entry.group)
		byGroup[entry.group] = entry.keys
		for _, k := range entry.keys {
			if _, dup := groupOf[k]; dup {
				panic(fmt.Sprintf("feature key %q declared in more than one group", k))
			}
			groupOf[k] = entry.group
			position[k] = len(allKeys)
			allKeys = append(allKeys, k)
		}
	}
}

// All returns every feature key in canonical order.
func All() []Key {
	out := make([]Key, len(allKeys))
	copy(out, allKeys)
	return out
}

// Groups returns every group in canonical order.
func Groups() []Group {
	out := make([]Group, len(allGroups))
	copy(out, allGroups)
	return out
}

// KeysIn returns the keys of a group in canonical order, or nil for an unknown group.
func KeysIn(g Group) []Key {
	keys, ok := byGroup[g]
	if !ok {
		return nil
	}
	out := make([]Key, len(keys))
	copy(out, keys)
	return out
}

// GroupOf returns the group a key belongs to.
func GroupOf(k Key) (Group, bool) {
	g, ok := groupOf[k]
	return g, ok
}

// Known reports whether k is part of the vocabulary.
func Known(k Key) bool {
	_, ok := groupOf[k]
	return ok
}

// KnownGroup reports whether g is a declared group.
func KnownGroup(g Group) bool {
	_, ok := byGroup[g]
	return ok
}

// Index returns the canonical position of k, or -1 if unknown.
func Index(k Key) int {
	if i, ok := position[k]; ok {
		return i
	}
	return -1
}

// SortKeys orders keys canonically; unknown keys sort last by name.
func SortKeys(keys []Key) {
	sort.SliceStable(keys, func(i, j int) bool {
		pi, pj := Index(keys[i]), Index(keys[j])
		switch {
		case pi >= 0 && pj >= 0:
			return pi < pj
		case pi >= 0:
			return true
		case pj >= 0:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
}
