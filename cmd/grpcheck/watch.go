package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/joss/grpcheck/internal/probe"
)

func watchCmd() *cobra.Command {
	flags := &connFlags{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream serving-status updates",
		Long: `Open a health watch stream and print each serving-status update
as the server reports it. Runs until interrupted (Ctrl-C); the exit
code then reflects the last observed status. The --timeout flag bounds
the wait for the first update.

Examples:
  grpcheck watch --target localhost:50051
  grpcheck watch --target localhost:50051 --service myapp.UserService`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			opts, err := flags.probeOptions()
			if err != nil {
				exitOnError(err)
			}

			r := newRenderer()
			if pre := r.Preamble(opts.Target, opts.Service, opts.Timeout, opts.TLS != nil); pre != "" {
				fmt.Print(pre)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			last := healthpb.HealthCheckResponse_UNKNOWN
			err = probe.Watch(ctx, opts, func(status healthpb.HealthCheckResponse_ServingStatus) {
				last = status
				fmt.Println(r.Update(time.Now(), status))
			})
			if err != nil {
				fmt.Fprintln(os.Stderr, r.Failure(err))
				os.Exit(1)
			}
			if last != healthpb.HealthCheckResponse_SERVING {
				os.Exit(1)
			}
		},
	}
	flags.register(cmd)
	return cmd
}
