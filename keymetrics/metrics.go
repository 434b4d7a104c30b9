// Package keymetrics turns report text into the figures an email quotes.
//
// Two strategies exist and are never combined: ExtractHighlights scans the
// text for two labeled counts and degrades to "N/A", while Extractor asks the
// completion service for the full KeyMetrics record as JSON and fails on any
// schema violation.
package keymetrics

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Value is a metric as reported, e.g. "35.682", "+15,4%" or "2m 55s".
// Completion services occasionally emit bare numbers; those are kept as their
// literal JSON text.
type Value string

// UnmarshalJSON accepts a JSON string or number.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return errors.New("metric value is null")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("metric value must be a string or number")
	}
	*v = Value(n.String())
	return nil
}

// String returns the value text.
func (v Value) String() string {
	return string(v)
}

// Acquisition is the "acquisizione" section.
type Acquisition struct {
	Users        Value    `json:"users"`
	Sessions     Value    `json:"sessions"`
	TopCountries []string `json:"top_countries"`
}

// Engagement is the "engagement_e_conversioni" section.
type Engagement struct {
	EngagementRate              Value `json:"engagement_rate"`
	EngagementRateChange        Value `json:"engagement_rate_change"`
	AvgEngagementDuration       Value `json:"avg_engagement_duration"`
	AvgEngagementDurationChange Value `json:"avg_engagement_duration_change"`
	EngagedSessions             Value `json:"engaged_sessions"`
	EngagedSessionsChange       Value `json:"engaged_sessions_change"`
	Conversions                 Value `json:"conversions"`
	ConversionsChange           Value `json:"conversions_change"`
	TopChannel                  Value `json:"top_channel"`
}

// Organic is the "posizionamento_organico" section.
type Organic struct {
	Clicks            Value `json:"clicks"`
	ClicksChange      Value `json:"clicks_change"`
	Impressions       Value `json:"impressions"`
	ImpressionsChange Value `json:"impressions_change"`
	AvgPosition       Value `json:"avg_position"`
	AvgPositionChange Value `json:"avg_position_change"`
}

// KeyMetrics is the complete set of figures extracted from one report. Every
// field is required; ParseKeyMetrics never returns a partial record.
type KeyMetrics struct {
	Acquisition Acquisition `json:"acquisizione"`
	Engagement  Engagement  `json:"engagement_e_conversioni"`
	Organic     Organic     `json:"posizionamento_organico"`
}

// JSON section names.
const (
	SectionAcquisition = "acquisizione"
	SectionEngagement  = "engagement_e_conversioni"
	SectionOrganic     = "posizionamento_organico"
)

// schemaSection lists the keys a section must carry, in prompt order.
type schemaSection struct {
	name string
	keys []string
}

var schema = []schemaSection{
	{SectionAcquisition, []string{"users", "sessions", "top_countries"}},
	{SectionEngagement, []string{
		"engagement_rate", "engagement_rate_change",
		"avg_engagement_duration", "avg_engagement_duration_change",
		"engaged_sessions", "engaged_sessions_change",
		"conversions", "conversions_change", "top_channel",
	}},
	{SectionOrganic, []string{
		"clicks", "clicks_change",
		"impressions", "impressions_change",
		"avg_position", "avg_position_change",
	}},
}
