package compose

import (
	"os"

	"gopkg.in/yaml.v3"

	"reportmailer/core"
)

// AgencyProfile holds the agency-specific wording around every email. All
// fields are optional; empty ones fall back to DefaultProfile.
type AgencyProfile struct {
	// Project names the SEO project in the opening line. Empty uses the
	// client name from the form.
	Project string `yaml:"project"`

	Greeting   string `yaml:"greeting"`
	AccessNote string `yaml:"access_note"`
	Outlook    string `yaml:"outlook"`
	Closing    string `yaml:"closing"`
	SignOff    string `yaml:"sign_off"`

	// Signature is printed under the sender name, e.g. the agency name.
	Signature string `yaml:"signature"`
}

// DefaultProfile returns the stock wording.
func DefaultProfile() AgencyProfile {
	return AgencyProfile{
		Greeting: "Ciao",
		AccessNote: "Troverai maggiori dettagli nel report allegato in formato PDF. " +
			"Ricordo anche che è possibile accedere al report online in qualsiasi momento, " +
			"utilizzando le credenziali fornite in allegato a questa mail.",
		Outlook: "Continueremo a puntare su contenuti di qualità e ottimizzazione on-page " +
			"per rafforzare la presenza organica del sito.",
		Closing: "Fammi sapere se ti servisse altro.",
		SignOff: "A presto,",
	}
}

// withDefaults fills empty fields from DefaultProfile.
func (p AgencyProfile) withDefaults() AgencyProfile {
	def := DefaultProfile()
	if p.Greeting == "" {
		p.Greeting = def.Greeting
	}
	if p.AccessNote == "" {
		p.AccessNote = def.AccessNote
	}
	if p.Outlook == "" {
		p.Outlook = def.Outlook
	}
	if p.Closing == "" {
		p.Closing = def.Closing
	}
	if p.SignOff == "" {
		p.SignOff = def.SignOff
	}
	return p
}

// ProjectFor returns the project label for a client.
func (p AgencyProfile) ProjectFor(clientName string) string {
	if p.Project != "" {
		return p.Project
	}
	return clientName
}

// LoadProfile reads a YAML profile, expanding ${VAR} references first. An
// empty path returns DefaultProfile.
//
// Example profile:
//
//	project: "RIVA 1920"
//	signature: "${AGENCY_NAME}"
//	closing: "Resto a disposizione per qualsiasi domanda."
func LoadProfile(path string) (AgencyProfile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return AgencyProfile{}, core.ErrProfileFailed(path, err)
	}

	expanded := os.ExpandEnv(string(data))

	var p AgencyProfile
	if err := yaml.Unmarshal([]byte(expanded), &p); err != nil {
		return AgencyProfile{}, core.ErrProfileFailed(path, err)
	}
	return p.withDefaults(), nil
}
