package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/2beens/pushupchecker/internal/config"
	"github.com/2beens/pushupchecker/internal/pose"
	"github.com/2beens/pushupchecker/internal/pose/posetest"
	"github.com/2beens/pushupchecker/internal/pushups"
	"github.com/2beens/pushupchecker/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	metricsManager, reg := metrics.NewTestManagerAndRegistry()
	sessions := pushups.NewManager(
		ctx,
		func(ctx context.Context) (pose.Source, error) {
			return pose.NewReplaySource(strings.NewReader(posetest.JSONL(posetest.Reps(3)...)), pose.DefaultResolution, 0), nil
		},
		pushups.DefaultThresholds(),
		metricsManager,
	)

	server, err := NewServer(NewServerParams{
		Config:         config.Default(),
		Sessions:       sessions,
		MetricsManager: metricsManager,
		PromRegistry:   reg,
		VersionInfo:    "test-version",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = sessions.Stop()
	})
	return server
}

func TestServer_Version(t *testing.T) {
	server := newTestServer(t)
	router := server.routerSetup()

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "test-version", rr.Body.String())
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_SessionThroughMiddleware(t *testing.T) {
	server := newTestServer(t)
	router := server.routerSetup()

	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(`{"goal": "2", "type": "Wide-arm"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	<-server.sessions.Done()

	req = httptest.NewRequest(http.MethodGet, "/session", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var snapshot pushups.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snapshot))
	assert.Equal(t, 2, snapshot.Count)
	assert.True(t, snapshot.GoalReached)
	assert.Equal(t, pushups.FeedbackGoalReached, snapshot.Feedback)
	assert.Equal(t, pushups.PushUpTypeWideArm, snapshot.Type)

	assert.Equal(t, 2.0, testutil.ToFloat64(server.metricsManager.CounterReps))
	assert.Equal(t, 1.0, testutil.ToFloat64(server.metricsManager.CounterRequests.WithLabelValues("POST", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(server.metricsManager.CounterRequests.WithLabelValues("GET", "200")))
}

func TestServer_CorsRejectsForeignOrigin(t *testing.T) {
	server := newTestServer(t)
	router := server.routerSetup()

	req := httptest.NewRequest(http.MethodGet, "/types", nil)
	req.Header.Set("Origin", "https://example.org")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	server := newTestServer(t)
	server.config.MetricsPort = "0"

	server.Serve("localhost", 0)
	assert.Equal(t, 1.0, testutil.ToFloat64(server.metricsManager.GaugeLifeSignal))

	server.GracefulShutdown()
	assert.Equal(t, 0.0, testutil.ToFloat64(server.metricsManager.GaugeLifeSignal))
}
