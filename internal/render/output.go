// Package render formats probe results for the terminal.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Renderer handles output formatting.
type Renderer struct {
	pretty  bool
	verbose bool
}

// New creates a renderer. Pretty output uses color and glyphs; plain
// output is stable line-oriented text for scripts.
func New(pretty, verbose bool) *Renderer {
	return &Renderer{pretty: pretty, verbose: verbose}
}

// Preamble describes the check about to run. Empty unless verbose.
func (r *Renderer) Preamble(target, service string, timeout time.Duration, tlsEnabled bool) string {
	if !r.verbose {
		return ""
	}

	svc := service
	if svc == "" {
		svc = "<overall server health>"
	}
	transport := "plaintext"
	if tlsEnabled {
		transport = "tls"
	}

	var sb strings.Builder
	if r.pretty {
		fmt.Fprintf(&sb, "%s %s\n", color.CyanString("Checking"), target)
	} else {
		fmt.Fprintf(&sb, "checking %s\n", target)
	}
	fmt.Fprintf(&sb, "  service:   %s\n", svc)
	fmt.Fprintf(&sb, "  timeout:   %v\n", timeout)
	fmt.Fprintf(&sb, "  transport: %s\n", transport)
	return sb.String()
}

// Healthy formats the success line for a SERVING status.
func (r *Renderer) Healthy(status healthpb.HealthCheckResponse_ServingStatus) string {
	if r.pretty {
		return fmt.Sprintf("%s service is %s", color.GreenString("✓"), color.GreenString(status.String()))
	}
	return fmt.Sprintf("status: %s", status)
}

// Unhealthy formats the failure line for a non-SERVING status.
func (r *Renderer) Unhealthy(status healthpb.HealthCheckResponse_ServingStatus) string {
	if r.pretty {
		return fmt.Sprintf("%s service is %s", color.RedString("✗"), color.RedString(status.String()))
	}
	return fmt.Sprintf("status: %s", status)
}

// Failure formats a classified probe error.
func (r *Renderer) Failure(err error) string {
	if r.pretty {
		return fmt.Sprintf("%s health check failed: %v", color.RedString("✗"), err)
	}
	return fmt.Sprintf("health check failed: %v", err)
}

// Update formats one watch-stream status update.
func (r *Renderer) Update(ts time.Time, status healthpb.HealthCheckResponse_ServingStatus) string {
	mark := "•"
	if r.pretty {
		if status == healthpb.HealthCheckResponse_SERVING {
			mark = color.GreenString("✓")
		} else {
			mark = color.RedString("✗")
		}
	}
	return fmt.Sprintf("%s [%s] %s", mark, ts.Format("15:04:05"), status)
}
