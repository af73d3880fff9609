// Package probe performs a single health check against a gRPC server
// using the standard grpc.health.v1 protocol.
package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// DefaultTimeout bounds a check when no timeout is given.
const DefaultTimeout = 5 * time.Second

// TLSOptions selects an encrypted transport. The zero value uses the
// system root pool with standard verification.
type TLSOptions struct {
	// CAFile is an optional PEM bundle overriding the system roots.
	CAFile string

	// ServerName overrides the hostname used for certificate verification.
	ServerName string

	// SkipVerify disables certificate verification entirely.
	SkipVerify bool
}

// Options configures a probe run.
type Options struct {
	// Target is the "host:port" address to probe.
	Target string

	// Service is the service name to check. Empty checks whole-server health.
	Service string

	// Timeout bounds the check, connection establishment included.
	Timeout time.Duration

	// TLS enables an encrypted transport when non-nil. Nil means plaintext.
	TLS *TLSOptions

	// dialOpts lets tests inject a bufconn dialer.
	dialOpts []grpc.DialOption
}

// Result is the outcome of a successful check.
type Result struct {
	Status healthpb.HealthCheckResponse_ServingStatus
}

// Serving reports whether the probed service is healthy.
func (r Result) Serving() bool {
	return r.Status == healthpb.HealthCheckResponse_SERVING
}

// Check opens a connection to the target, issues one health check and
// returns the reported status. Failures come back as *Error with the
// cause classified. The connection is closed before returning.
func Check(ctx context.Context, opts Options) (Result, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	conn, err := dial(opts)
	if err != nil {
		return Result{}, fmt.Errorf("create channel to %s: %w", opts.Target, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	client := healthpb.NewHealthClient(conn)
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: opts.Service})
	if err != nil {
		return Result{}, classify(err, opts)
	}
	return Result{Status: resp.GetStatus()}, nil
}

// Watch streams serving-status updates for the target, invoking onUpdate
// for each one. The first update must arrive within opts.Timeout; after
// that the stream runs until ctx ends (clean stop, nil error) or the
// stream fails (classified error).
func Watch(ctx context.Context, opts Options, onUpdate func(healthpb.HealthCheckResponse_ServingStatus)) error {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	conn, err := dial(opts)
	if err != nil {
		return fmt.Errorf("create channel to %s: %w", opts.Target, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The first update must arrive within the timeout. Stream creation
	// itself blocks until the transport is ready, so the timer has to be
	// armed before the Watch call, not just around Recv.
	var timedOut atomic.Bool
	timer := time.AfterFunc(opts.Timeout, func() {
		timedOut.Store(true)
		cancel()
	})
	defer timer.Stop()

	watchErr := func(err error) error {
		if timedOut.Load() {
			return &Error{Kind: KindTimedOut, Target: opts.Target, Service: opts.Service, Timeout: opts.Timeout}
		}
		if ctx.Err() != nil {
			// Caller stopped the watch.
			return nil
		}
		return classify(err, opts)
	}

	stream, err := healthpb.NewHealthClient(conn).Watch(ctx, &healthpb.HealthCheckRequest{Service: opts.Service})
	if err != nil {
		return watchErr(err)
	}

	for {
		resp, err := stream.Recv()
		if err != nil {
			return watchErr(err)
		}
		timer.Stop()
		onUpdate(resp.GetStatus())
	}
}

// dial builds the client connection. Connection establishment is lazy;
// transport failures surface on the first RPC.
func dial(opts Options) (*grpc.ClientConn, error) {
	creds := insecure.NewCredentials()
	if opts.TLS != nil {
		cfg := &tls.Config{
			ServerName:         opts.TLS.ServerName,
			InsecureSkipVerify: opts.TLS.SkipVerify,
		}
		if opts.TLS.CAFile != "" {
			pem, err := os.ReadFile(opts.TLS.CAFile)
			if err != nil {
				return nil, fmt.Errorf("read CA bundle: %w", err)
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(pem) {
				return nil, fmt.Errorf("no certificates found in %s", opts.TLS.CAFile)
			}
			cfg.RootCAs = pool
		}
		creds = credentials.NewTLS(cfg)
	}

	dialOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(creds)}, opts.dialOpts...)
	return grpc.NewClient(opts.Target, dialOpts...)
}
