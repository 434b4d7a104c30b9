package compose

import (
	"strings"
	"text/template"

	"reportmailer/llm"
)

// freeformPrompt carries the instruction, the report and a worked example of
// the target prose. The completion is used verbatim as the email body.
var freeformPrompt = template.Must(template.New("freeform").Parse(
	`Crea una mail per il cliente {{.Fields.ClientName}} (referente: {{.Fields.ContactName}}) riguardante il report {{.Fields.ReportType}} per il periodo {{.Fields.Timeframe}}.
Ecco il testo del report:

{{.ReportText}}

Utilizza il seguente template, sostituendo i dati di esempio con quelli del report:

{{.Profile.Greeting}} {{.Fields.ContactName}},

Scrivo per condividerti il report {{.Fields.ReportType}} per progetto SEO di {{.Project}}, con un focus particolare sui risultati del canale organico.

Il periodo analizzato va dall'{{.Fields.Timeframe}} e confrontato con lo stesso periodo dell'anno precedente.

[ACQUISIZIONE]
Abbiamo registrato un incremento del traffico organico del +17,3%, confermando il canale organico come una delle principali fonti di acquisizione. Questo miglioramento riflette l'efficacia delle nostre strategie SEO nell'attrarre utenti qualificati.

[ENGAGEMENT E CONVERSIONI]
Per quanto riguarda l'engagement, abbiamo osservato risultati molto positivi filtrando per traffico organico. La durata media del coinvolgimento è aumentata dell'11,7%, raggiungendo i 2 minuti e 55 secondi. Le sessioni con coinvolgimento sono aumentate del 15,4%, totalizzando 35.682 sessioni, mentre il tasso di coinvolgimento ha mostrato un leggero incremento dello 0,5%, attestandosi al 67,46%. Inoltre, le visualizzazioni totali sono cresciute del 15,7%, raggiungendo 198.458. Questi dati indicano che gli utenti provenienti dalla ricerca organica sono maggiormente coinvolti e interagiscono più a lungo con i contenuti del sito.

Per quanto riguarda le conversioni, la maggior parte di esse proviene dal traffico organico, con un totale di 3.720 conversioni, evidenziando l'importanza del canale organico nel generare azioni concrete da parte degli utenti.

[POSIZIONAMENTO ORGANICO]
Su Google Search Console, abbiamo registrato un calo dei clic del -13,0% e delle impression del -0,9%. Queste flessioni negative sono dovute agli aggiornamenti di marzo rilasciati da Google. Stiamo monitorando attentamente la situazione per adattare le nostre strategie di conseguenza. È importante notare che la posizione media è migliorata, scendendo del -13,6%. Questo è un aspetto positivo, in quanto indica una maggiore presenza nelle pagine superiori dei risultati di ricerca.

{{.Profile.Outlook}}

{{.Profile.AccessNote}}

{{.Profile.Closing}}

{{.Profile.SignOff}}

{{.Fields.SenderName}}{{if .Profile.Signature}}
{{.Profile.Signature}}{{end}}
`))

type freeformData struct {
	Fields     EmailFields
	Profile    AgencyProfile
	Project    string
	ReportText string
}

// BuildFreeformPrompt renders the single user prompt of the free-form
// strategy. fields are used as given; callers validate them first.
func BuildFreeformPrompt(fields EmailFields, reportText string, profile AgencyProfile) (string, error) {
	profile = profile.withDefaults()

	var sb strings.Builder
	err := freeformPrompt.Execute(&sb, freeformData{
		Fields:     fields,
		Profile:    profile,
		Project:    profile.ProjectFor(fields.ClientName),
		ReportText: reportText,
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// BuildFreeformMessages returns the system message and the free-form prompt.
func BuildFreeformMessages(fields EmailFields, reportText string, profile AgencyProfile) ([]llm.Message, error) {
	prompt, err := BuildFreeformPrompt(fields, reportText, profile)
	if err != nil {
		return nil, err
	}
	return []llm.Message{
		llm.SystemMessage(llm.DefaultSystemPrompt),
		llm.UserMessage(prompt),
	}, nil
}
