package webui

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"reportmailer/compose"
	"reportmailer/core"
	"reportmailer/pipeline"
)

// pageHTML is the single page of the tool. The result section appears above
// the form after a successful generation; the form keeps its values so the
// operator can regenerate.
const pageHTML = `<!DOCTYPE html>
<html lang="it">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Generatore di Email per Report SEO</title>
    <link rel="stylesheet" href="/static/app.css">
</head>
<body>
<main>
    <h1>Generatore di Email per Report SEO</h1>

    {{if .Error}}<div class="error" role="alert">{{.Error}}</div>{{end}}

    {{with .Result}}
    <section class="result">
        <h2>Email generata</h2>
        <p class="meta">
            {{.Pages}} pagine lette{{if .SentTokens}}, {{.SentTokens}} token inviati{{end}}{{if .Truncated}} (testo troncato){{end}} · {{.Duration}} · ID {{.RequestID}}
        </p>
        <form id="download-form" method="post" action="/download">
            <input type="hidden" name="format" value="{{.Format}}">
            {{if .IsHTML}}
            <div id="email-editor" class="editor" contenteditable="true">{{.HTML}}</div>
            <textarea id="email-content" name="content" hidden>{{.Body}}</textarea>
            {{else}}
            <textarea id="email-content" name="content">{{.Body}}</textarea>
            {{end}}
            <button type="submit">Scarica {{.Filename}}</button>
            <button type="button" id="copy-button" class="secondary">Copia negli appunti</button>
        </form>
    </section>
    {{end}}

    <form id="generate-form" class="generate" method="post" action="/generate" enctype="multipart/form-data">
        {{if .APIKeyRequired}}
        <label>Chiave API OpenAI
            <input type="password" name="api_key" autocomplete="off">
        </label>
        {{end}}
        <label>Report PDF
            <input type="file" name="report" accept="application/pdf,.pdf">
        </label>
        <label>Nome del cliente
            <input type="text" name="client_name" value="{{.Form.ClientName}}">
        </label>
        <label>Nome del referente
            <input type="text" name="contact_name" value="{{.Form.ContactName}}">
        </label>
        <label>Timeframe del report
            <input type="text" name="timeframe" value="{{.Form.Timeframe}}" placeholder="1 marzo 2024 - 31 maggio 2024">
        </label>
        <label>Tipologia di report
            <select name="report_type">
                <option value="">Seleziona...</option>
                {{range .ReportTypes}}<option value="{{.}}"{{if eq . $.Form.ReportType}} selected{{end}}>{{.}}</option>
                {{end}}
            </select>
        </label>
        <label>Il tuo nome
            <input type="text" name="sender_name" value="{{.Form.SenderName}}">
        </label>
        <fieldset>
            <legend>Modalità di generazione</legend>
            {{range .Strategies}}<label><input type="radio" name="strategy" value="{{.Value}}"{{if eq .Value $.Form.Strategy}} checked{{end}}> {{.Label}}</label>
            {{end}}
        </fieldset>
        <button type="submit">Genera Email</button>
    </form>
</main>
<script src="/static/app.js"></script>
</body>
</html>
`

type strategyOption struct {
	Value core.Strategy
	Label string
}

var strategyOptions = []strategyOption{
	{core.StrategyFreeform, "Testo libero scritto dal modello"},
	{core.StrategyHighlights, "Modello fisso con i dati principali (senza chiamate al modello)"},
	{core.StrategyStructured, "Email HTML con le metriche estratte dal modello"},
}

// formValues are echoed back into the form. The API key and the file are
// never echoed.
type formValues struct {
	ClientName  string
	ContactName string
	Timeframe   string
	ReportType  compose.ReportType
	SenderName  string
	Strategy    core.Strategy
}

func (f formValues) fields() compose.EmailFields {
	return compose.EmailFields{
		ClientName:  f.ClientName,
		ContactName: f.ContactName,
		Timeframe:   f.Timeframe,
		ReportType:  f.ReportType,
		SenderName:  f.SenderName,
	}
}

type resultView struct {
	RequestID  string
	Body       string
	HTML       template.HTML
	IsHTML     bool
	Format     compose.Format
	Filename   string
	Pages      int
	SentTokens int
	Truncated  bool
	Duration   string
}

func newResultView(r *pipeline.Result) *resultView {
	v := &resultView{
		RequestID:  r.RequestID,
		Body:       r.Email.Body,
		IsHTML:     r.Email.Format == compose.FormatHTML,
		Format:     r.Email.Format,
		Filename:   r.Email.Filename(),
		Pages:      r.Extraction.Pages,
		SentTokens: r.Extraction.SentTokens,
		Truncated:  r.Extraction.Truncated,
		Duration:   formatSeconds(r.Stages.Total()),
	}
	if v.IsHTML {
		// The HTML body was rendered by html/template; every report value in
		// it is already escaped.
		v.HTML = template.HTML(r.Email.Body)
	}
	return v
}

type pageData struct {
	Error          string
	APIKeyRequired bool
	ReportTypes    []compose.ReportType
	Strategies     []strategyOption
	Form           formValues
	Result         *resultView
}

func parsePages() (*template.Template, error) {
	return template.New("page").Parse(pageHTML)
}

// formatSeconds renders d with one decimal and an Italian decimal comma.
func formatSeconds(d time.Duration) string {
	return strings.Replace(fmt.Sprintf("%.1f s", d.Seconds()), ".", ",", 1)
}
