package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fatih/color"
	"github.com/kardianos/service"

	"reportmailer/core"
)

// stopTimeout bounds how long Stop waits for run to return. It is longer
// than the default shutdown timeout so in-flight generations can finish.
const stopTimeout = 45 * time.Second

// program implements service.Interface around run so the report mailer can
// run as a Windows service, systemd unit or launchd job.
type program struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Start is called when the service is started. It must not block.
func (p *program) Start(s service.Service) error {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)
		if code := run(ctx, io.Discard); code != core.ExitCodeSuccess {
			// Let the service manager see the failure and apply its restart policy.
			os.Exit(code)
		}
	}()
	return nil
}

// Stop is called when the service is stopped. It signals run to shut down
// gracefully and waits for it.
func (p *program) Stop(s service.Service) error {
	if p.cancel == nil {
		return nil
	}
	p.cancel()

	select {
	case <-p.done:
		return nil
	case <-time.After(stopTimeout):
		return fmt.Errorf("timeout waiting for service to stop")
	}
}

// serviceConfig describes the installed service. The working directory is
// the executable's so that .env and the agency profile are found there.
func serviceConfig() *service.Config {
	cfg := &service.Config{
		Name:        "reportmailer",
		DisplayName: "Report Mailer",
		Description: "Turns SEO performance report PDFs into client emails",
		Arguments:   []string{},
	}
	if exe, err := os.Executable(); err == nil {
		cfg.WorkingDirectory = filepath.Dir(exe)
	}
	return cfg
}

func isInteractive() bool {
	return service.Interactive()
}

// runAsService hands control to the OS service manager.
func runAsService() error {
	s, err := service.New(&program{}, serviceConfig())
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	if err := s.Run(); err != nil {
		return fmt.Errorf("service run failed: %w", err)
	}
	return nil
}

// runServiceCommand performs one -service action and returns the exit code.
func runServiceCommand(out io.Writer, action string) int {
	if action != "status" && !slices.Contains(service.ControlAction[:], action) {
		fmt.Fprintf(out, "Unknown service action %q. Valid actions: %v, status\n", action, service.ControlAction)
		return core.ExitCodeError
	}

	s, err := service.New(&program{}, serviceConfig())
	if err != nil {
		color.New(color.FgRed).Fprintf(out, "Error: failed to create service: %v\n", err)
		return core.ExitCodeError
	}

	if action == "status" {
		status, err := s.Status()
		if err != nil {
			color.New(color.FgRed).Fprintf(out, "Error: failed to get service status: %v\n", err)
			return core.ExitCodeError
		}
		fmt.Fprintln(out, statusText(status))
		return core.ExitCodeSuccess
	}

	if err := service.Control(s, action); err != nil {
		color.New(color.FgRed).Fprintf(out, "Error: %v\n", err)
		return core.ExitCodeError
	}
	color.New(color.FgGreen).Fprintf(out, "Service %s: done\n", action)
	return core.ExitCodeSuccess
}

func statusText(status service.Status) string {
	switch status {
	case service.StatusRunning:
		return "Service is running"
	case service.StatusStopped:
		return "Service is stopped"
	default:
		return "Service status unknown"
	}
}
