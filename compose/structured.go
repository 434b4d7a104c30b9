package compose

import (
	"fmt"
	"html/template"
	"strings"

	"reportmailer/core"
	"reportmailer/keymetrics"
	"reportmailer/llm"
)

var structuredFuncs = template.FuncMap{
	"num": func(v keymetrics.Value) string {
		return keymetrics.FormatNumber(string(v))
	},
	"trend": func(metric string, change keymetrics.Value) string {
		return TrendPhrase(keymetrics.TrendOf(keymetrics.Metric(metric), change))
	},
	"list": func(items []string) string {
		return strings.Join(items, ", ")
	},
}

var structuredTemplate = template.Must(template.New("structured").Funcs(structuredFuncs).Parse(
	`<p>{{.Profile.Greeting}} {{.Fields.ContactName}},</p>
<p>Scrivo per condividerti il report {{.Fields.ReportType}} per progetto SEO di {{.Project}}, con un focus particolare sui risultati del canale organico.</p>
<p>Il periodo analizzato è {{.Fields.Timeframe}}, confrontato con lo stesso periodo dell'anno precedente.</p>
{{- with .Commentary}}
<p>{{.}}</p>
{{- end}}
{{- with .Metrics}}
<p><b>Acquisizione</b><br>
Nel periodo abbiamo registrato {{num .Acquisition.Users}} utenti e {{num .Acquisition.Sessions}} sessioni.{{if .Acquisition.TopCountries}} I paesi che generano più traffico sono: {{list .Acquisition.TopCountries}}.{{end}}</p>
<p><b>Engagement e Conversioni</b><br>
Il tasso di coinvolgimento si attesta al {{.Engagement.EngagementRate}}, {{trend "engagement_rate" .Engagement.EngagementRateChange}}. La durata media del coinvolgimento è di {{.Engagement.AvgEngagementDuration}}, {{trend "avg_engagement_duration" .Engagement.AvgEngagementDurationChange}}. Le sessioni con coinvolgimento sono state {{num .Engagement.EngagedSessions}}, {{trend "engaged_sessions" .Engagement.EngagedSessionsChange}}.</p>
<p>Le conversioni totali sono state {{num .Engagement.Conversions}}, {{trend "conversions" .Engagement.ConversionsChange}}. Il canale che contribuisce maggiormente è {{.Engagement.TopChannel}}.</p>
<p><b>Posizionamento Organico</b><br>
Su Google Search Console abbiamo registrato {{num .Organic.Clicks}} clic, {{trend "clicks" .Organic.ClicksChange}}, e {{num .Organic.Impressions}} impression, {{trend "impressions" .Organic.ImpressionsChange}}. La posizione media è {{.Organic.AvgPosition}}: {{trend "avg_position" .Organic.AvgPositionChange}}.</p>
{{- end}}
<p>{{.Profile.Outlook}}</p>
<p>{{.Profile.AccessNote}}</p>
<p>{{.Profile.Closing}}</p>
<p>{{.Profile.SignOff}}<br>
{{.Fields.SenderName}}{{if .Profile.Signature}}<br>
{{.Profile.Signature}}{{end}}</p>
`))

type structuredData struct {
	Fields     EmailFields
	Profile    AgencyProfile
	Project    string
	Metrics    *keymetrics.KeyMetrics
	Commentary string
}

// TrendPhrase words a change for the email. Rank metrics are judged by
// polarity ("migliorata" when the position number falls); all others state
// the direction of the change.
func TrendPhrase(t keymetrics.Trend) string {
	change := strings.TrimSpace(string(t.Change))

	if t.Metric.Polarity() == keymetrics.LowerIsBetter {
		switch t.Outcome {
		case keymetrics.Improved:
			return "migliorata, con una variazione del " + change
		case keymetrics.Worsened:
			return "peggiorata, con una variazione del " + change
		default:
			return "stabile rispetto al periodo precedente"
		}
	}

	switch t.Direction {
	case keymetrics.Increase:
		return "in aumento del " + change
	case keymetrics.Decrease:
		return "in calo del " + change
	default:
		return "stabile rispetto al periodo precedente"
	}
}

// RenderStructured fills the HTML template with metrics. commentary is an
// optional paragraph placed before the figures; it is escaped like every
// other value. A nil metrics record is a schema error; no email is produced
// without its figures.
func RenderStructured(fields EmailFields, metrics *keymetrics.KeyMetrics, commentary string, profile AgencyProfile) (Email, error) {
	if metrics == nil {
		return Email{}, core.SchemaError("compose.structured", "no metrics to render", nil)
	}
	profile = profile.withDefaults()

	var sb strings.Builder
	err := structuredTemplate.Execute(&sb, structuredData{
		Fields:     fields,
		Profile:    profile,
		Project:    profile.ProjectFor(fields.ClientName),
		Metrics:    metrics,
		Commentary: strings.TrimSpace(commentary),
	})
	if err != nil {
		return Email{}, err
	}
	return Email{Body: sb.String(), Format: FormatHTML}, nil
}

// BuildCommentaryMessages asks for a short commentary on metrics, used by the
// structured strategy when commentary is enabled.
func BuildCommentaryMessages(fields EmailFields, metrics *keymetrics.KeyMetrics) []llm.Message {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Scrivi un breve paragrafo (massimo tre frasi) in italiano, senza saluti né firma, "+
		"che commenti l'andamento complessivo del canale organico per il cliente %s nel periodo %s. "+
		"Per la posizione media un valore in calo è un miglioramento. Dati:\n",
		fields.ClientName, fields.Timeframe)
	for _, t := range metrics.Trends() {
		fmt.Fprintf(&sb, "- %s: %s\n", t.Metric, TrendPhrase(t))
	}
	return []llm.Message{
		llm.SystemMessage(llm.DefaultSystemPrompt),
		llm.UserMessage(sb.String()),
	}
}
