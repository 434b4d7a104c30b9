package keymetrics

import (
	"context"

	"go.uber.org/zap"

	"reportmailer/llm"
	"reportmailer/logging"
)

// extractionPrompt asks for the metrics in the exact shape ParseKeyMetrics
// expects. The report text is appended after it.
const extractionPrompt = `Analizza il seguente report SEO ed estrai le metriche chiave.
Rispondi esclusivamente con un oggetto JSON con questa struttura, senza testo aggiuntivo:

{
  "acquisizione": {
    "users": "",
    "sessions": "",
    "top_countries": [""]
  },
  "engagement_e_conversioni": {
    "engagement_rate": "",
    "engagement_rate_change": "",
    "avg_engagement_duration": "",
    "avg_engagement_duration_change": "",
    "engaged_sessions": "",
    "engaged_sessions_change": "",
    "conversions": "",
    "conversions_change": "",
    "top_channel": ""
  },
  "posizionamento_organico": {
    "clicks": "",
    "clicks_change": "",
    "impressions": "",
    "impressions_change": "",
    "avg_position": "",
    "avg_position_change": ""
  }
}

Riporta i valori come stringhe, così come compaiono nel report. Le variazioni
rispetto al periodo precedente devono includere il segno (es. "+15,4%", "-13,0%").

Report:

`

// BuildExtractionMessages returns the system and user messages of a metrics
// request for reportText.
func BuildExtractionMessages(reportText string) []llm.Message {
	return []llm.Message{
		llm.SystemMessage(llm.DefaultSystemPrompt),
		llm.UserMessage(extractionPrompt + reportText),
	}
}

// Extractor obtains KeyMetrics from the completion service with one request.
type Extractor struct {
	completer llm.Completer
	logger    *logging.Logger
}

// NewExtractor creates an Extractor. logger may be nil.
func NewExtractor(completer llm.Completer, logger *logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Extractor{completer: completer, logger: logger}
}

// Extract sends reportText, which the caller has already bounded to the
// extraction token budget, and parses the reply. Completion failures are
// returned unchanged; invalid replies are schema errors.
func (e *Extractor) Extract(ctx context.Context, reportText string) (*KeyMetrics, error) {
	raw, err := e.completer.Complete(ctx, BuildExtractionMessages(reportText))
	if err != nil {
		return nil, err
	}

	metrics, err := ParseKeyMetrics(raw)
	if err != nil {
		e.logger.Warn("Metrics response rejected",
			zap.Int("response_length", len(raw)),
			zap.Error(err))
		return nil, err
	}

	e.logger.Debug("Metrics extracted",
		zap.Int("top_countries", len(metrics.Acquisition.TopCountries)))
	return metrics, nil
}
