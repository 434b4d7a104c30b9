package compose

import (
	"strings"
	"testing"

	"reportmailer/core"
	"reportmailer/keymetrics"
	"reportmailer/llm"
)

func testMetrics() *keymetrics.KeyMetrics {
	return &keymetrics.KeyMetrics{
		Acquisition: keymetrics.Acquisition{Users: "12500", Sessions: "20100", TopCountries: []string{"Italia", "Svizzera"}},
		Engagement: keymetrics.Engagement{
			EngagementRate: "67,46%", EngagementRateChange: "+0,5%",
			AvgEngagementDuration: "2m 55s", AvgEngagementDurationChange: "+11,7%",
			EngagedSessions: "35682", EngagedSessionsChange: "+15,4%",
			Conversions: "3720", ConversionsChange: "-2,0%",
			TopChannel: "Organic Search",
		},
		Organic: keymetrics.Organic{
			Clicks: "1234567", ClicksChange: "-13,0%",
			Impressions: "890000", ImpressionsChange: "-0,9%",
			AvgPosition: "14,2", AvgPositionChange: "-13,6%",
		},
	}
}

func TestBuildFreeformMessages(t *testing.T) {
	msgs, err := BuildFreeformMessages(validFields(), "TESTO DEL REPORT", DefaultProfile())
	if err != nil {
		t.Fatalf("BuildFreeformMessages failed: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != llm.RoleSystem || msgs[1].Role != llm.RoleUser {
		t.Fatalf("messages = %+v", msgs)
	}

	prompt := msgs[1].Content
	for _, want := range []string{
		"Crea una mail per il cliente RIVA 1920 (referente: Marco)",
		"report trimestrale per il periodo 1 marzo 2024 - 31 maggio 2024",
		"TESTO DEL REPORT",
		"Ciao Marco,",
		"[ACQUISIZIONE]",
		"[ENGAGEMENT E CONVERSIONI]",
		"[POSIZIONAMENTO ORGANICO]",
		"totalizzando 35.682 sessioni",
		"Fammi sapere se ti servisse altro.",
		"Giulia",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildFreeformPrompt_ReportTextVerbatim(t *testing.T) {
	text := "Valori {{.Fields}} <b>50%</b>"
	prompt, err := BuildFreeformPrompt(validFields(), text, AgencyProfile{})
	if err != nil {
		t.Fatalf("BuildFreeformPrompt failed: %v", err)
	}
	if !strings.Contains(prompt, text) {
		t.Error("report text must be embedded verbatim")
	}
}

func TestRenderHighlights(t *testing.T) {
	email, err := RenderHighlights(validFields(), keymetrics.Highlights{EngagedSessions: "35.682", Conversions: "3.720"}, AgencyProfile{Signature: "Studio Nord"})
	if err != nil {
		t.Fatalf("RenderHighlights failed: %v", err)
	}
	if email.Format != FormatText {
		t.Errorf("Format = %q, want text", email.Format)
	}
	for _, want := range []string{"Ciao Marco,", "35.682", "3.720", "report trimestrale", "RIVA 1920", "Giulia\nStudio Nord"} {
		if !strings.Contains(email.Body, want) {
			t.Errorf("body missing %q:\n%s", want, email.Body)
		}
	}
	if strings.Contains(email.Body, keymetrics.NotAvailable) {
		t.Error("body should not contain N/A")
	}

	missing, err := RenderHighlights(validFields(), keymetrics.ExtractHighlights("nessun dato"), DefaultProfile())
	if err != nil {
		t.Fatalf("RenderHighlights failed: %v", err)
	}
	if strings.Count(missing.Body, keymetrics.NotAvailable) != 2 {
		t.Errorf("want two N/A placeholders:\n%s", missing.Body)
	}
}

func TestRenderStructured(t *testing.T) {
	email, err := RenderStructured(validFields(), testMetrics(), "", DefaultProfile())
	if err != nil {
		t.Fatalf("RenderStructured failed: %v", err)
	}
	if email.Format != FormatHTML {
		t.Errorf("Format = %q, want html", email.Format)
	}

	for _, want := range []string{
		"<b>Acquisizione</b>",
		"<b>Engagement e Conversioni</b>",
		"<b>Posizionamento Organico</b>",
		"12.500 utenti",
		"1.234.567 clic",
		"35.682",
		"Italia, Svizzera",
		"67,46%, in aumento del &#43;0,5%", // html/template escapes "+"
		"in calo del -2,0%",
		"La posizione media è 14,2: migliorata",
		"Giulia",
	} {
		if !strings.Contains(email.Body, want) {
			t.Errorf("body missing %q:\n%s", want, email.Body)
		}
	}
}

func TestRenderStructured_NilMetrics(t *testing.T) {
	email, err := RenderStructured(validFields(), nil, "", DefaultProfile())
	if core.KindOf(err) != core.KindSchema {
		t.Fatalf("KindOf = %q, want schema (err = %v)", core.KindOf(err), err)
	}
	if email.Body != "" {
		t.Errorf("no body expected, got:\n%s", email.Body)
	}
}

func TestRenderStructured_PositionWorsened(t *testing.T) {
	m := testMetrics()
	m.Organic.AvgPositionChange = "+4,2%"

	email, err := RenderStructured(validFields(), m, "", DefaultProfile())
	if err != nil {
		t.Fatalf("RenderStructured failed: %v", err)
	}
	if !strings.Contains(email.Body, "peggiorata") || strings.Contains(email.Body, "migliorata") {
		t.Errorf("average position wording wrong:\n%s", email.Body)
	}
}

func TestRenderStructured_EscapesInput(t *testing.T) {
	f := validFields()
	f.ContactName = "<script>alert(1)</script>"

	email, err := RenderStructured(f, testMetrics(), "Trimestre <i>positivo</i>", DefaultProfile())
	if err != nil {
		t.Fatalf("RenderStructured failed: %v", err)
	}
	if strings.Contains(email.Body, "<script>") || strings.Contains(email.Body, "<i>") {
		t.Errorf("values must be escaped:\n%s", email.Body)
	}
	if !strings.Contains(email.Body, "Trimestre &lt;i&gt;positivo") {
		t.Errorf("commentary missing:\n%s", email.Body)
	}
}

func TestTrendPhrase(t *testing.T) {
	tests := []struct {
		metric keymetrics.Metric
		change keymetrics.Value
		want   string
	}{
		{keymetrics.MetricClicks, "-13,0%", "in calo del -13,0%"},
		{keymetrics.MetricClicks, "+3%", "in aumento del +3%"},
		{keymetrics.MetricAvgPosition, "-13,6%", "migliorata, con una variazione del -13,6%"},
		{keymetrics.MetricAvgPosition, "+1,0%", "peggiorata, con una variazione del +1,0%"},
		{keymetrics.MetricImpressions, "0%", "stabile rispetto al periodo precedente"},
	}
	for _, tt := range tests {
		if got := TrendPhrase(keymetrics.TrendOf(tt.metric, tt.change)); got != tt.want {
			t.Errorf("TrendPhrase(%s, %q) = %q, want %q", tt.metric, tt.change, got, tt.want)
		}
	}
}

func TestBuildCommentaryMessages(t *testing.T) {
	msgs := BuildCommentaryMessages(validFields(), testMetrics())
	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d", len(msgs))
	}
	if !strings.Contains(msgs[1].Content, "avg_position: migliorata") {
		t.Errorf("commentary prompt missing trend data:\n%s", msgs[1].Content)
	}
}
