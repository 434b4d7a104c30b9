package core

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// CheckStatus is the outcome of a single startup check.
type CheckStatus int

const (
	CheckPassed CheckStatus = iota
	CheckWarning
	CheckFailed
)

// StartupCheck is one line of the startup report.
type StartupCheck struct {
	Name    string
	Status  CheckStatus
	Message string
}

// StartupChecks inspects the loaded configuration and returns the lines shown
// to the operator before the server starts. A failed check blocks startup.
func StartupChecks(cfg *Config) []StartupCheck {
	checks := []StartupCheck{
		{Name: "Version", Status: CheckPassed, Message: VersionInfo()},
		{Name: "Completion model", Status: CheckPassed, Message: cfg.Model},
		{
			Name:    "Token budgets",
			Status:  CheckPassed,
			Message: fmt.Sprintf("prompt %d, metrics %d, response %d", cfg.MaxInputTokens, cfg.ExtractionMaxInputTokens, cfg.ResponseTokens),
		},
		{Name: "Default strategy", Status: CheckPassed, Message: string(cfg.DefaultStrategy)},
		{Name: "Upload limit", Status: CheckPassed, Message: FormatBytes(cfg.MaxUploadMemory)},
	}

	if cfg.HasAPIKey() {
		checks = append(checks, StartupCheck{Name: "API key", Status: CheckPassed, Message: "preconfigured"})
	} else {
		checks = append(checks, StartupCheck{
			Name:    "API key",
			Status:  CheckWarning,
			Message: "not set, operators must enter one in the form",
		})
	}

	if cfg.ProfilePath != "" {
		if _, err := os.Stat(cfg.ProfilePath); err != nil {
			checks = append(checks, StartupCheck{Name: "Agency profile", Status: CheckFailed, Message: err.Error()})
		} else {
			checks = append(checks, StartupCheck{Name: "Agency profile", Status: CheckPassed, Message: cfg.ProfilePath})
		}
	}

	return checks
}

// PrintStartupReport writes a colored summary of checks to out and reports
// whether startup may continue.
func PrintStartupReport(out io.Writer, checks []StartupCheck) bool {
	fmt.Fprintln(out)
	color.New(color.FgCyan, color.Bold).Fprintln(out, "━━━ Report Mailer ━━━")

	ok := true
	for _, c := range checks {
		var icon string
		var clr *color.Color
		switch c.Status {
		case CheckPassed:
			icon, clr = "✓", color.New(color.FgGreen)
		case CheckWarning:
			icon, clr = "!", color.New(color.FgYellow)
		default:
			icon, clr = "✗", color.New(color.FgRed)
			ok = false
		}
		clr.Fprintf(out, "  %s %s", icon, c.Name)
		if c.Message != "" {
			color.New(color.FgHiBlack).Fprintf(out, " - %s", c.Message)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out)
	return ok
}
