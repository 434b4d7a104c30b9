package keymetrics

import "strings"

// Polarity states which direction of change is good news for a metric.
type Polarity int

const (
	// HigherIsBetter applies to counts and rates.
	HigherIsBetter Polarity = iota
	// LowerIsBetter applies to ranks such as average position.
	LowerIsBetter
)

// Direction is the sign of a period-over-period change.
type Direction int

const (
	Unchanged Direction = iota
	Increase
	Decrease
)

// Outcome is the direction judged against the metric's polarity.
type Outcome int

const (
	Stable Outcome = iota
	Improved
	Worsened
)

// Metric names a delta-carrying metric.
type Metric string

const (
	MetricEngagementRate        Metric = "engagement_rate"
	MetricAvgEngagementDuration Metric = "avg_engagement_duration"
	MetricEngagedSessions       Metric = "engaged_sessions"
	MetricConversions           Metric = "conversions"
	MetricClicks                Metric = "clicks"
	MetricImpressions           Metric = "impressions"
	MetricAvgPosition           Metric = "avg_position"
)

// Polarity returns the metric's polarity. Average position counts down
// towards the top of the results page.
func (m Metric) Polarity() Polarity {
	if m == MetricAvgPosition {
		return LowerIsBetter
	}
	return HigherIsBetter
}

// DirectionOf reads the sign of a delta such as "-13,6%" or "+0,5%". Both the
// ASCII hyphen and the Unicode minus count as negative. A delta without any
// non-zero digit is Unchanged.
func DirectionOf(delta string) Direction {
	delta = strings.TrimSpace(delta)
	if !strings.ContainsAny(delta, "123456789") {
		return Unchanged
	}
	if strings.ContainsAny(delta, "-−") {
		return Decrease
	}
	return Increase
}

// Assess combines a delta's direction with the metric polarity.
func Assess(delta string, p Polarity) Outcome {
	d := DirectionOf(delta)
	switch {
	case d == Unchanged:
		return Stable
	case (d == Increase) == (p == HigherIsBetter):
		return Improved
	default:
		return Worsened
	}
}

// Trend is a change value with its direction and outcome resolved.
type Trend struct {
	Metric    Metric
	Change    Value
	Direction Direction
	Outcome   Outcome
}

// TrendOf resolves change for metric.
func TrendOf(metric Metric, change Value) Trend {
	return Trend{
		Metric:    metric,
		Change:    change,
		Direction: DirectionOf(string(change)),
		Outcome:   Assess(string(change), metric.Polarity()),
	}
}

// Trends returns every delta-carrying metric of m in email order.
func (m *KeyMetrics) Trends() []Trend {
	return []Trend{
		TrendOf(MetricEngagementRate, m.Engagement.EngagementRateChange),
		TrendOf(MetricAvgEngagementDuration, m.Engagement.AvgEngagementDurationChange),
		TrendOf(MetricEngagedSessions, m.Engagement.EngagedSessionsChange),
		TrendOf(MetricConversions, m.Engagement.ConversionsChange),
		TrendOf(MetricClicks, m.Organic.ClicksChange),
		TrendOf(MetricImpressions, m.Organic.ImpressionsChange),
		TrendOf(MetricAvgPosition, m.Organic.AvgPositionChange),
	}
}
