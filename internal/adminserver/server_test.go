package adminserver_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dantte-lp/goeventstore/internal/adminserver"
)

type fakeStats struct {
	values map[string]any
}

func (f fakeStats) Stats() map[string]any { return f.values }

func setupTestServer(t *testing.T, stats adminserver.StatsProvider) (string, *http.Client) {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	healthPath, healthHandler, statsPath, statsHandler := adminserver.New(stats, logger)

	mux := http.NewServeMux()
	mux.Handle(healthPath, healthHandler)
	mux.Handle(statsPath, statsHandler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv.URL, srv.Client()
}

func TestGetStats(t *testing.T) {
	t.Parallel()

	stats := fakeStats{values: map[string]any{
		"frames_sent":         float64(42),
		"pending_correlations": float64(3),
	}}

	baseURL, httpClient := setupTestServer(t, stats)

	client := connect.NewClient[structpb.Struct, structpb.Struct](
		httpClient, baseURL+"/esclientd.admin.v1.AdminService/GetStats",
	)

	resp, err := client.CallUnary(context.Background(), connect.NewRequest(&structpb.Struct{}))
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	got := resp.Msg.AsMap()
	if got["frames_sent"] != float64(42) {
		t.Errorf("frames_sent = %v, want 42", got["frames_sent"])
	}
	if got["pending_correlations"] != float64(3) {
		t.Errorf("pending_correlations = %v, want 3", got["pending_correlations"])
	}
}

// TestHealthCheckReachable only asserts the grpchealth handler is mounted
// and responds; decoding the response requires grpchealth's own generated
// health.v1 messages, which this module has no reason to depend on
// directly (the admin facade only ever mounts the handler, it never
// constructs or inspects health messages itself).
func TestHealthCheckReachable(t *testing.T) {
	t.Parallel()

	baseURL, httpClient := setupTestServer(t, fakeStats{values: map[string]any{}})

	req, err := http.NewRequest(http.MethodPost, baseURL+"/grpc.health.v1.Health/Check",
		bytes.NewReader([]byte{0, 0, 0, 0, 0}))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/grpc+proto")

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200 (gRPC errors are carried in trailers, not HTTP status)", resp.StatusCode)
	}
}
