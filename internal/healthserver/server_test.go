package healthserver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func TestParseStatus(t *testing.T) {
	cases := map[string]healthpb.HealthCheckResponse_ServingStatus{
		"serving":         healthpb.HealthCheckResponse_SERVING,
		"SERVING":         healthpb.HealthCheckResponse_SERVING,
		"not-serving":     healthpb.HealthCheckResponse_NOT_SERVING,
		"not_serving":     healthpb.HealthCheckResponse_NOT_SERVING,
		"unknown":         healthpb.HealthCheckResponse_UNKNOWN,
		"service-unknown": healthpb.HealthCheckResponse_SERVICE_UNKNOWN,
	}
	for word, want := range cases {
		st, err := ParseStatus(word)
		require.NoError(t, err, word)
		assert.Equal(t, want, st, word)
	}

	_, err := ParseStatus("degraded")
	assert.Error(t, err)
}

func TestParseStatusSpecs(t *testing.T) {
	statuses, err := ParseStatusSpecs([]string{
		"example.Service=serving",
		"example.Other=not-serving",
		"unknown", // bare word applies to whole-server health
	})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, statuses["example.Service"])
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, statuses["example.Other"])
	assert.Equal(t, healthpb.HealthCheckResponse_UNKNOWN, statuses[""])
}

func TestParseStatusSpecsBad(t *testing.T) {
	_, err := ParseStatusSpecs([]string{"svc=flaky"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "svc=flaky")
}

func TestNewDefaultsOverallServing(t *testing.T) {
	srv := New(nil)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, srv.Statuses()[""])
}

func TestServeAnswersChecks(t *testing.T) {
	srv := New(map[string]healthpb.HealthCheckResponse_ServingStatus{
		"example.Service": healthpb.HealthCheckResponse_SERVING,
		"example.Other":   healthpb.HealthCheckResponse_NOT_SERVING,
	})

	lis := bufconn.Listen(1024 * 1024)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	defer conn.Close()

	client := healthpb.NewHealthClient(conn)
	rpcCtx, rpcCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer rpcCancel()

	resp, err := client.Check(rpcCtx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	resp, err = client.Check(rpcCtx, &healthpb.HealthCheckRequest{Service: "example.Other"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())

	// Close our connection first so the graceful stop has nothing to drain.
	conn.Close()
	cancel()
	require.NoError(t, <-done)
}
