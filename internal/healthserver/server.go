// Package healthserver runs a demonstration gRPC server that only
// exposes the standard health service, with configurable per-service
// statuses. It exists so the probe has something real to run against.
package healthserver

import (
	"context"
	"fmt"
	"net"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server wraps a gRPC server carrying the grpc.health.v1 service.
type Server struct {
	grpc     *grpc.Server
	health   *health.Server
	statuses map[string]healthpb.HealthCheckResponse_ServingStatus
}

// New creates a server reporting the given statuses. The empty service
// name sets whole-server health; when absent it defaults to SERVING.
func New(statuses map[string]healthpb.HealthCheckResponse_ServingStatus) *Server {
	if statuses == nil {
		statuses = map[string]healthpb.HealthCheckResponse_ServingStatus{}
	}
	if _, ok := statuses[""]; !ok {
		statuses[""] = healthpb.HealthCheckResponse_SERVING
	}

	hs := health.NewServer()
	for name, st := range statuses {
		hs.SetServingStatus(name, st)
	}

	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	return &Server{grpc: gs, health: hs, statuses: statuses}
}

// Statuses returns the configured service statuses.
func (s *Server) Statuses() map[string]healthpb.HealthCheckResponse_ServingStatus {
	return s.statuses
}

// Serve accepts connections on lis until ctx ends, then stops
// gracefully. Taking a listener keeps tests off real ports.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.grpc.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		s.grpc.GracefulStop()
		<-errc
		return nil
	case err := <-errc:
		return err
	}
}

// ParseStatus maps a CLI status word to the protocol enum.
func ParseStatus(word string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	switch strings.ToLower(word) {
	case "serving":
		return healthpb.HealthCheckResponse_SERVING, nil
	case "not-serving", "not_serving":
		return healthpb.HealthCheckResponse_NOT_SERVING, nil
	case "unknown":
		return healthpb.HealthCheckResponse_UNKNOWN, nil
	case "service-unknown", "service_unknown":
		return healthpb.HealthCheckResponse_SERVICE_UNKNOWN, nil
	default:
		return 0, fmt.Errorf("unknown status %q (want serving, not-serving, unknown or service-unknown)", word)
	}
}

// ParseStatusSpecs parses repeated "name=status" flags. A bare status
// with no "=" applies to whole-server health.
func ParseStatusSpecs(specs []string) (map[string]healthpb.HealthCheckResponse_ServingStatus, error) {
	statuses := map[string]healthpb.HealthCheckResponse_ServingStatus{}
	for _, spec := range specs {
		name, word, found := strings.Cut(spec, "=")
		if !found {
			word, name = name, ""
		}
		st, err := ParseStatus(word)
		if err != nil {
			return nil, fmt.Errorf("bad --status %q: %w", spec, err)
		}
		statuses[name] = st
	}
	return statuses, nil
}
