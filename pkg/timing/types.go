package timing

import "time"

// DayPreference constrains which days of the week a send time may land on.
type DayPreference string

const (
	// DayAny places no constraint on the day of week.
	DayAny DayPreference = ""
	// DayWeekend targets Saturday or Sunday.
	DayWeekend DayPreference = "weekend"
	// DayWeekday targets Monday through Friday.
	DayWeekday DayPreference = "weekday"
)

// Window is an hour range believed to be favorable for posting, local to the
// destination timezone. StartHour is inclusive, EndHour exclusive; end-of-day
// windows end at 24.
type Window struct {
	StartHour  int     `yaml:"start_hour"`
	EndHour    int     `yaml:"end_hour"`
	Confidence float64 `yaml:"confidence"`
}

// Valid reports whether the window satisfies the hour range and confidence
// invariants.
func (w Window) Valid() bool {
	return w.StartHour >= 0 && w.StartHour < w.EndHour && w.EndHour <= 24 &&
		w.Confidence > 0 && w.Confidence <= 1
}

// DestinationTiming is the analysis result for one destination: its send
// windows sorted by descending confidence and when they were computed.
type DestinationTiming struct {
	Destination  string    `json:"destination"`
	Windows      []Window  `json:"windows"`
	LastAnalyzed time.Time `json:"last_analyzed"`
	// Derived is true when the windows come from recorded engagement rather
	// than the static heuristics.
	Derived bool `json:"derived"`
}

// Engagement captures the interaction outcome of one published post.
type Engagement struct {
	Reactions int
	Comments  int
	// PostedAt is when the post went out; its hour of day, in Timezone, is
	// what gets aggregated. Zero means now.
	PostedAt time.Time
	// Timezone names the destination-local zone for hour bucketing. Empty or
	// unknown zones fall back to the PostedAt location.
	Timezone string
}

// Score weights comments over reactions: a comment signals roughly three
// times the engagement of a passive reaction.
func (e Engagement) Score() float64 {
	return float64(e.Reactions) + 3*float64(e.Comments)
}
