// Package main provides the grpcheck CLI entrypoint.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joss/grpcheck/internal/probe"
	"github.com/joss/grpcheck/internal/render"
)

var (
	version = "0.1.0"
	plain   bool
	verbose bool
)

func main() {
	flags := &connFlags{}

	rootCmd := &cobra.Command{
		Use:   "grpcheck",
		Short: "Check the health of a gRPC server",
		Long: `grpcheck probes a gRPC server through the standard health
checking protocol (grpc.health.v1) and reports the result.

Exit code 0 means the server (or the named service) is SERVING;
anything else, including transport failures, exits 1.

Examples:
  grpcheck --target localhost:50051
  grpcheck --host localhost --port 50051
  grpcheck --target localhost:50051 --service myapp.UserService
  grpcheck --target example.com:443 --tls --timeout 10
  grpcheck --target localhost:50051 -v`,
		Version: version,
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			opts, err := flags.probeOptions()
			if err != nil {
				exitOnError(err)
			}

			r := newRenderer()
			if pre := r.Preamble(opts.Target, opts.Service, opts.Timeout, opts.TLS != nil); pre != "" {
				fmt.Print(pre)
			}

			res, err := probe.Check(cmd.Context(), opts)
			if err != nil {
				fmt.Fprintln(os.Stderr, r.Failure(err))
				os.Exit(1)
			}

			if res.Serving() {
				fmt.Println(r.Healthy(res.Status))
				return
			}
			fmt.Println(r.Unhealthy(res.Status))
			os.Exit(1)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "Force plain output (no color or glyphs)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	flags.register(rootCmd)

	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRenderer() *render.Renderer {
	return render.New(!plain && stdoutIsTerminal(), verbose)
}

// secondsToDuration converts the float --timeout flag value.
func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
