package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/joss/grpcheck/internal/probe"
	"github.com/joss/grpcheck/internal/target"
)

// connFlags holds the connection flags shared by the root command and watch.
type connFlags struct {
	target  string
	host    string
	port    int
	service string
	timeout float64

	useTLS        bool
	tlsCA         string
	tlsServerName string
	tlsSkipVerify bool
}

func (f *connFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.target, "target", "", "Server address as host:port (e.g. localhost:50051)")
	cmd.Flags().StringVar(&f.host, "host", "", "Server host (use with --port)")
	cmd.Flags().IntVar(&f.port, "port", 0, "Server port (use with --host)")
	cmd.Flags().StringVar(&f.service, "service", "", "Service name to check (empty for overall server health)")
	cmd.Flags().Float64Var(&f.timeout, "timeout", 5.0, "Timeout in seconds")
	cmd.Flags().BoolVar(&f.useTLS, "tls", false, "Use TLS for the connection")
	cmd.Flags().StringVar(&f.tlsCA, "tls-ca", "", "PEM bundle to verify the server certificate (implies --tls)")
	cmd.Flags().StringVar(&f.tlsServerName, "tls-server-name", "", "Override the hostname used for certificate verification (implies --tls)")
	cmd.Flags().BoolVar(&f.tlsSkipVerify, "tls-skip-verify", false, "Skip server certificate verification (implies --tls)")
}

// probeOptions validates the flag combination and assembles probe options.
// Argument errors come back before any network activity.
func (f *connFlags) probeOptions() (probe.Options, error) {
	addr, err := target.Resolve(f.target, f.host, f.port)
	if err != nil {
		return probe.Options{}, err
	}
	if f.timeout <= 0 {
		return probe.Options{}, fmt.Errorf("--timeout must be positive, got %v", f.timeout)
	}

	opts := probe.Options{
		Target:  addr,
		Service: f.service,
		Timeout: secondsToDuration(f.timeout),
	}
	if f.useTLS || f.tlsCA != "" || f.tlsServerName != "" || f.tlsSkipVerify {
		opts.TLS = &probe.TLSOptions{
			CAFile:     f.tlsCA,
			ServerName: f.tlsServerName,
			SkipVerify: f.tlsSkipVerify,
		}
	}
	return opts, nil
}

// exitOnError prints the error to stderr and exits.
func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
