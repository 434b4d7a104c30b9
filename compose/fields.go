// Package compose builds what the completion service is asked and what the
// operator finally receives: the free-form prompt, and the plain-text and
// HTML email templates filled with report figures.
package compose

import (
	"fmt"
	"strings"

	"reportmailer/core"
)

const opValidate = "compose.validate"

// ReportType is the kind of report being sent.
type ReportType string

const (
	ReportQuarterly  ReportType = "trimestrale"
	ReportSAR        ReportType = "SAR"
	ReportYearReview ReportType = "year review"
)

// ReportTypes lists the accepted report types in display order.
var ReportTypes = []ReportType{ReportQuarterly, ReportSAR, ReportYearReview}

// Valid reports whether t is one of ReportTypes.
func (t ReportType) Valid() bool {
	for _, rt := range ReportTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// EmailFields are the operator-entered values substituted into every email.
type EmailFields struct {
	ClientName  string
	ContactName string
	Timeframe   string // free text, e.g. "1 marzo 2024 - 31 maggio 2024"
	ReportType  ReportType
	SenderName  string
}

// Trimmed returns a copy with surrounding whitespace removed.
func (f EmailFields) Trimmed() EmailFields {
	return EmailFields{
		ClientName:  strings.TrimSpace(f.ClientName),
		ContactName: strings.TrimSpace(f.ContactName),
		Timeframe:   strings.TrimSpace(f.Timeframe),
		ReportType:  ReportType(strings.TrimSpace(string(f.ReportType))),
		SenderName:  strings.TrimSpace(f.SenderName),
	}
}

// Validate requires every field to be non-blank and the report type to be
// known. The error names all offending fields at once.
func (f EmailFields) Validate() error {
	t := f.Trimmed()

	var missing []string
	for _, field := range []struct {
		label string
		value string
	}{
		{"nome del cliente", t.ClientName},
		{"nome del referente", t.ContactName},
		{"timeframe", t.Timeframe},
		{"tipologia di report", string(t.ReportType)},
		{"il tuo nome", t.SenderName},
	} {
		if field.value == "" {
			missing = append(missing, field.label)
		}
	}
	if len(missing) > 0 {
		return core.ValidationError(opValidate,
			"compila tutti i campi richiesti: "+strings.Join(missing, ", "))
	}

	if !t.ReportType.Valid() {
		return core.ValidationError(opValidate,
			fmt.Sprintf("tipologia di report %q non valida", t.ReportType))
	}
	return nil
}
