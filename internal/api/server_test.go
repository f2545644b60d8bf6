// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinema/internal/api"
	"github.com/taibuivan/cinema/internal/core/movie"
	"github.com/taibuivan/cinema/internal/platform/apperr"
	"github.com/taibuivan/cinema/internal/platform/config"
	"github.com/taibuivan/cinema/internal/platform/metrics"
	"github.com/taibuivan/cinema/internal/platform/sec"
)

// emptyCatalogue is a movie repository with one genre and no movies.
type emptyCatalogue struct{}

func (emptyCatalogue) ListMovies(context.Context, movie.Filter, int, int) ([]*movie.Movie, int, error) {
	return []*movie.Movie{}, 0, nil
}
func (emptyCatalogue) GetMovie(context.Context, int64) (*movie.Movie, error) {
	return nil, apperr.NotFound("Movie")
}
func (emptyCatalogue) CreateMovie(context.Context, *movie.Movie) error { return nil }
func (emptyCatalogue) UpdateMovie(context.Context, *movie.Movie) error { return nil }
func (emptyCatalogue) DeleteMovie(context.Context, int64) error     { return apperr.NotFound("Movie") }
func (emptyCatalogue) ListGenres(context.Context) ([]*movie.Genre, error) {
	return []*movie.Genre{{ID: 1, Name: "Action"}}, nil
}
func (emptyCatalogue) GetGenre(_ context.Context, id int64) (*movie.Genre, error) {
	if id != 1 {
		return nil, apperr.NotFound("Genre")
	}
	return &movie.Genre{ID: 1, Name: "Action"}, nil
}

type fixture struct {
	handler http.Handler
	codec   *sec.TokenCodec
}

func newFixture(t *testing.T, deps api.HealthDependencies) fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	codec, err := sec.NewTokenCodec([]byte("server-test-secret"), "Authentication-Microservices")
	require.NoError(t, err)

	registry, recorder := metrics.NewRegistry()
	liveness, readiness := api.NewHealthHandlers(deps, logger)
	movieHandler := movie.NewHandler(movie.NewService(emptyCatalogue{}, logger))

	server := api.NewServer(
		&config.Config{ServerPort: "0", Environment: "development"},
		logger,
		api.Security{Decoder: codec},
		api.Observability{Metrics: recorder, Gatherer: registry},
		api.Handlers{Liveness: liveness, Readiness: readiness, Movie: movieHandler},
	)
	return fixture{handler: server.Handler(), codec: codec}
}

func (f fixture) do(t *testing.T, method, target, authorization, body string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()
	f.handler.ServeHTTP(recorder, request)
	return recorder
}

func (f fixture) bearer(t *testing.T, role sec.Role) string {
	t.Helper()
	token, err := f.codec.Encode("someone@b.com", role, time.Now(), time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestServer_Probes(t *testing.T) {
	f := newFixture(t, api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
		CheckCache:    func(context.Context) error { return nil },
	})

	recorder := f.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))

	recorder = f.do(t, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"ready"`)
}

func TestServer_ReadinessDegraded(t *testing.T) {
	f := newFixture(t, api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
		CheckCache:    func(context.Context) error { return errors.New("dial tcp: connection refused") },
	})

	recorder := f.do(t, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"degraded"`)
	assert.Contains(t, recorder.Body.String(), `"name":"redis","ok":false`)
}

func TestServer_AuthorizationThroughGate(t *testing.T) {
	f := newFixture(t, api.HealthDependencies{})

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/v1/movies", "", "").Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/v1/genres", "", "").Code)

	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodPost, "/api/v1/movies", "", `{}`).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodPost, "/api/v1/movies", "Basic xyz", `{}`).Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodPost, "/api/v1/movies", f.bearer(t, sec.RoleUser), `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/v1/movies", f.bearer(t, sec.RoleAdmin), `{}`).Code)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	f := newFixture(t, api.HealthDependencies{})

	f.do(t, http.MethodGet, "/api/v1/genres", "", "")
	f.do(t, http.MethodGet, "/api/v1/genres", "Bearer not-a-token", "")

	recorder := f.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	body := recorder.Body.String()
	assert.Contains(t, body, `cinema_auth_gate_outcomes_total{outcome="anonymous_no_header"}`)
	assert.Contains(t, body, `cinema_auth_gate_outcomes_total{outcome="anonymous_invalid_token"} 1`)
	assert.Contains(t, body, `cinema_http_request_duration_seconds_count{method="GET",route="/api/v1/genres`)
}

// deadlineResolver records whether identity lookups run under a deadline.
type deadlineResolver struct {
	calls       int
	hasDeadline bool
}

func (resolver *deadlineResolver) ResolveIdentity(ctx context.Context, claims *sec.Claims) (*sec.Identity, error) {
	resolver.calls++
	_, resolver.hasDeadline = ctx.Deadline()
	return &sec.Identity{Subject: claims.Subject, Role: claims.Role}, nil
}

/*
TestServer_GateLookupIsBounded checks that the live account lookup made by the
authentication gate inherits the per-request timeout.
*/
func TestServer_GateLookupIsBounded(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	codec, err := sec.NewTokenCodec([]byte("server-test-secret"), "Authentication-Microservices")
	require.NoError(t, err)

	resolver := &deadlineResolver{}
	liveness, _ := api.NewHealthHandlers(api.HealthDependencies{}, logger)
	server := api.NewServer(
		&config.Config{ServerPort: "0", Environment: "development"},
		logger,
		api.Security{Decoder: codec, Resolver: resolver},
		api.Observability{},
		api.Handlers{Liveness: liveness},
	)

	token, err := codec.Encode("someone@b.com", sec.RoleUser, time.Now(), time.Hour)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, 1, resolver.calls)
	assert.True(t, resolver.hasDeadline)
}
