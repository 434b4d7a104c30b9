package compose

import (
	"strings"
	"text/template"

	"reportmailer/keymetrics"
)

var highlightsTemplate = template.Must(template.New("highlights").Parse(
	`{{.Profile.Greeting}} {{.Fields.ContactName}},

Scrivo per condividerti il report {{.Fields.ReportType}} per progetto SEO di {{.Project}}, con un focus particolare sui risultati del canale organico.

Il periodo analizzato è {{.Fields.Timeframe}}, confrontato con lo stesso periodo dell'anno precedente.

ENGAGEMENT E CONVERSIONI
Filtrando per traffico organico, le sessioni con coinvolgimento sono state {{.Highlights.EngagedSessions}}, mentre le conversioni registrate sono state {{.Highlights.Conversions}}.

{{.Profile.Outlook}}

{{.Profile.AccessNote}}

{{.Profile.Closing}}

{{.Profile.SignOff}}

{{.Fields.SenderName}}{{if .Profile.Signature}}
{{.Profile.Signature}}{{end}}
`))

type highlightsData struct {
	Fields     EmailFields
	Profile    AgencyProfile
	Project    string
	Highlights keymetrics.Highlights
}

// RenderHighlights fills the plain-text template with the two regex-scanned
// figures. Missing figures appear as keymetrics.NotAvailable.
func RenderHighlights(fields EmailFields, h keymetrics.Highlights, profile AgencyProfile) (Email, error) {
	profile = profile.withDefaults()

	var sb strings.Builder
	err := highlightsTemplate.Execute(&sb, highlightsData{
		Fields:     fields,
		Profile:    profile,
		Project:    profile.ProjectFor(fields.ClientName),
		Highlights: h,
	})
	if err != nil {
		return Email{}, err
	}
	return Email{Body: sb.String(), Format: FormatText}, nil
}
