package webui

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"reportmailer/compose"
	"reportmailer/core"
	"reportmailer/logging"
	"reportmailer/metrics"
	"reportmailer/pipeline"
)

// handleForm renders the empty form.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, s.newPage(formValues{Strategy: s.gen.DefaultStrategy()}))
}

// handleGenerate runs the pipeline on the submitted form. Any failure
// re-renders the form with the error and a status matching its kind.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	requestID := RequestIDFromContext(r.Context())
	log := s.logger.With(zap.String("request_id", requestID))

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadMemory)
	if err := r.ParseMultipartForm(s.config.MaxUploadMemory); err != nil {
		page := s.newPage(formValues{Strategy: s.gen.DefaultStrategy()})
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			page.Error = "il file supera la dimensione massima di " + core.FormatBytes(s.config.MaxUploadMemory)
			s.render(w, r, http.StatusRequestEntityTooLarge, page)
			return
		}
		page.Error = "richiesta non valida: " + err.Error()
		s.render(w, r, http.StatusBadRequest, page)
		return
	}
	defer r.MultipartForm.RemoveAll()

	form := formValuesFrom(r)
	if form.Strategy == "" {
		form.Strategy = s.gen.DefaultStrategy()
	}
	page := s.newPage(form)

	pdf, err := readUpload(r, "report")
	if err != nil {
		page.Error = "impossibile leggere il file caricato: " + err.Error()
		s.render(w, r, http.StatusBadRequest, page)
		return
	}

	apiKey := ""
	if !s.config.APIKeyConfigured {
		apiKey = strings.TrimSpace(r.FormValue("api_key"))
	}

	start := time.Now()
	result, err := s.gen.Generate(r.Context(), pipeline.Request{
		RequestID: requestID,
		PDF:       pdf,
		Fields:    form.fields(),
		Strategy:  form.Strategy,
		APIKey:    apiKey,
	})
	s.recordGeneration(requestID, form.Strategy, start, result, err)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			log.Error("Generation failed", zap.Int("status", status), zap.Error(err))
		}
		page.Error = userMessage(err)
		s.render(w, r, status, page)
		return
	}

	page.Result = newResultView(result)
	s.render(w, r, http.StatusOK, page)
}

// handleDownload returns the submitted content as an attachment. The content
// is whatever the operator left in the editor.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadMemory)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "richiesta non valida", http.StatusBadRequest)
		return
	}

	email := compose.Email{
		Body:   r.PostForm.Get("content"),
		Format: compose.Format(r.PostForm.Get("format")),
	}
	if email.Format != compose.FormatHTML && email.Format != compose.FormatText {
		http.Error(w, "formato non valido", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(email.Body) == "" {
		http.Error(w, "nessun contenuto da scaricare", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", email.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", email.Filename()))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, email.Body)
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status           string                    `json:"status"`
	Version          string                    `json:"version"`
	UptimeSeconds    int64                     `json:"uptime_seconds"`
	DefaultStrategy  core.Strategy             `json:"default_strategy"`
	APIKeyConfigured bool                      `json:"api_key_configured"`
	Generations      metrics.GenerationMetrics `json:"generations"`
}

// handleHealth reports liveness. A degraded status still answers 200; the
// process is alive and highlights generations need no completion service.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.stats.Status()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(healthResponse{
		Status:           status.Health,
		Version:          status.Version,
		UptimeSeconds:    int64(status.Uptime.Seconds()),
		DefaultStrategy:  s.gen.DefaultStrategy(),
		APIKeyConfigured: s.config.APIKeyConfigured,
		Generations:      s.stats.Snapshot(),
	})
}

// recordGeneration adds the outcome of one pipeline run to the statistics.
func (s *Server) recordGeneration(requestID string, strategy core.Strategy, start time.Time, result *pipeline.Result, err error) {
	rec := metrics.GenerationRecord{
		RequestID: requestID,
		Strategy:  string(strategy),
		Status:    metrics.StatusSuccess,
		StartTime: start,
		Duration:  time.Since(start),
	}
	if err != nil {
		rec.Status = metrics.StatusError
		rec.ErrorKind = string(core.KindOf(err))
	} else if result != nil {
		rec.Strategy = string(result.Strategy)
		rec.Truncated = result.Extraction.Truncated
	}
	s.stats.Record(rec)
}

func (s *Server) newPage(form formValues) pageData {
	return pageData{
		APIKeyRequired: !s.config.APIKeyConfigured,
		ReportTypes:    compose.ReportTypes,
		Strategies:     strategyOptions,
		Form:           form,
	}
}

// render executes the page into a buffer first so a template failure can
// still produce a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page pageData) {
	var buf bytes.Buffer
	if err := s.pages.Execute(&buf, page); err != nil {
		s.logger.Error("Failed to render page",
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Error(err))
		http.Error(w, "errore interno", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func formValuesFrom(r *http.Request) formValues {
	return formValues{
		ClientName:  r.FormValue("client_name"),
		ContactName: r.FormValue("contact_name"),
		Timeframe:   r.FormValue("timeframe"),
		ReportType:  compose.ReportType(r.FormValue("report_type")),
		SenderName:  r.FormValue("sender_name"),
		Strategy:    core.Strategy(r.FormValue("strategy")),
	}
}

// readUpload returns the bytes of the named file part. A missing part is not
// an error here; the pipeline reports it with the other form problems.
func readUpload(r *http.Request, name string) ([]byte, error) {
	file, _, err := r.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// statusForError maps an error kind to the response status.
func statusForError(err error) int {
	switch core.KindOf(err) {
	case core.KindValidation:
		return http.StatusBadRequest
	case core.KindExtraction, core.KindSchema:
		return http.StatusUnprocessableEntity
	case core.KindCompletion:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// userMessage is the text shown above the form. Validation messages are
// already written for the operator; everything else gets a summary line plus
// the cause with credentials masked.
func userMessage(err error) string {
	var e *core.Error
	if errors.As(err, &e) && e.Kind == core.KindValidation {
		return e.Message
	}

	var summary string
	switch core.KindOf(err) {
	case core.KindExtraction:
		summary = "Impossibile leggere il testo del PDF"
	case core.KindEncoding:
		summary = "Impossibile preparare il testo del report"
	case core.KindCompletion:
		summary = "Il servizio di generazione non ha risposto correttamente"
	case core.KindSchema:
		summary = "Le metriche restituite dal modello non sono valide"
	default:
		summary = "Si è verificato un errore imprevisto"
	}
	return summary + ": " + logging.RedactSensitiveData(err.Error())
}
