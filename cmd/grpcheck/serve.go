package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sort"

	"github.com/spf13/cobra"

	"github.com/joss/grpcheck/internal/healthserver"
)

func serveCmd() *cobra.Command {
	var listen string
	var statusSpecs []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a demo server with the health service enabled",
		Long: `Start a gRPC server that only exposes grpc.health.v1, for trying
out the probe. Whole-server health defaults to SERVING; per-service
statuses are set with repeated --status flags.

Examples:
  grpcheck serve
  grpcheck serve --listen :9000
  grpcheck serve --status example.Service=serving --status example.Other=not-serving`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			statuses, err := healthserver.ParseStatusSpecs(statusSpecs)
			if err != nil {
				exitOnError(err)
			}

			lis, err := net.Listen("tcp", listen)
			if err != nil {
				exitOnError(fmt.Errorf("listen on %s: %w", listen, err))
			}

			srv := healthserver.New(statuses)

			fmt.Printf("Serving grpc.health.v1 on %s\n", lis.Addr())
			names := make([]string, 0, len(srv.Statuses()))
			for name := range srv.Statuses() {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				label := name
				if label == "" {
					label = "<overall>"
				}
				fmt.Printf("  %-30s %s\n", label, srv.Statuses()[name])
			}
			fmt.Println("Press Ctrl-C to stop")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			if err := srv.Serve(ctx, lis); err != nil {
				exitOnError(err)
			}
		},
	}

	cmd.Flags().StringVar(&listen, "listen", ":50051", "Listen address")
	cmd.Flags().StringArrayVar(&statusSpecs, "status", nil,
		`Service status as name=serving|not-serving|unknown|service-unknown (repeatable; bare status sets overall health)`)
	return cmd
}
