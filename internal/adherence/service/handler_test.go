package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/2beens/adherence/internal/adherence"
	"github.com/2beens/adherence/internal/adherence/narrative"
	"github.com/2beens/adherence/internal/adherence/service"
	"github.com/2beens/adherence/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequestRateLimiter struct {
	mutex   sync.Mutex
	Allowed map[string]int
}

func (l *testRequestRateLimiter) Allow(_ context.Context, key string, _ redis_rate.Limit) (*redis_rate.Result, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	res := &redis_rate.Result{RetryAfter: time.Minute}
	if l.Allowed[key] > 0 {
		res.Allowed = 1
		l.Allowed[key]--
	}
	return res, nil
}

func setupRouterForTests(t *testing.T, svc *MockadherenceService, limiter *testRequestRateLimiter) *mux.Router {
	t.Helper()

	if limiter == nil {
		limiter = &testRequestRateLimiter{Allowed: map[string]int{"evaluate::192.0.2.1": 100}}
	}

	r := mux.NewRouter()
	service.NewHandler(svc).SetupRoutes(r, limiter, metrics.NewTestManager(), 100)
	return r
}

func TestHandler_SetupRoutes(t *testing.T) {
	r := setupRouterForTests(t, nil, nil)

	for caseName, route := range map[string]struct {
		name   string
		path   string
		method string
	}{
		"health":           {name: "health", path: "/health", method: "GET"},
		"day":              {name: "day", path: "/adherence/u1/day/2024-03-11", method: "GET"},
		"day-options":      {name: "day", path: "/adherence/u1/day/2024-03-11", method: "OPTIONS"},
		"microcycle":       {name: "microcycle", path: "/adherence/u1/microcycle?from=2024-03-11&to=2024-03-17", method: "GET"},
		"evaluate":         {name: "evaluate", path: "/adherence/evaluate", method: "POST"},
		"evaluate-options": {name: "evaluate", path: "/adherence/evaluate", method: "OPTIONS"},
	} {
		t.Run(caseName, func(t *testing.T) {
			req, err := http.NewRequest(route.method, route.path, nil)
			require.NoError(t, err)

			routeMatch := &mux.RouteMatch{}
			muxRoute := r.Get(route.name)
			require.NotNil(t, muxRoute)
			assert.True(t, muxRoute.Match(req, routeMatch), caseName)
		})
	}
}

func TestHandler_HandleHealth(t *testing.T) {
	r := setupRouterForTests(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestHandler_HandleDay(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := NewMockadherenceService(ctrl)
	r := setupRouterForTests(t, mockService, nil)

	day := adherence.BuildDay(dayLogs(monday), adherence.DefaultWeights)
	mockService.EXPECT().
		Day(gomock.Any(), "u1", monday).
		Return(&service.DayResult{UserID: "u1", Day: day, Report: narrative.NarrateDay(day)}, nil)

	req := httptest.NewRequest(http.MethodGet, "/adherence/u1/day/2024-03-11", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var res service.DayResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, "u1", res.UserID)
	assert.Equal(t, 91.0, res.Day.GlobalAccuracy)
	assert.Equal(t, narrative.VerdictGood, res.Report.Verdict)
}

func TestHandler_HandleDay_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := NewMockadherenceService(ctrl)
	r := setupRouterForTests(t, mockService, nil)

	req := httptest.NewRequest(http.MethodGet, "/adherence/u1/day/11-03-2024", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	mockService.EXPECT().
		Day(gomock.Any(), "u1", monday).
		Return(nil, errors.New("db down"))
	req = httptest.NewRequest(http.MethodGet, "/adherence/u1/day/2024-03-11", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandler_HandleMicrocycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := NewMockadherenceService(ctrl)
	r := setupRouterForTests(t, mockService, nil)

	sunday := monday.AddDate(0, 0, 6)
	m := adherence.BuildMicrocycle([]adherence.DayLogs{dayLogs(monday), dayLogs(monday.AddDate(0, 0, 1))}, adherence.DefaultWeights)
	mockService.EXPECT().
		Microcycle(gomock.Any(), "u1", monday, sunday).
		Return(&service.MicrocycleResult{
			UserID:     "u1",
			From:       monday,
			To:         sunday,
			Microcycle: m,
			Report:     narrative.NarrateMicrocycle(m),
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/adherence/u1/microcycle?from=2024-03-11&to=2024-03-17", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var res service.MicrocycleResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.False(t, res.IsSample)
	assert.Equal(t, 91.0, res.Microcycle.AverageAccuracy)
	assert.True(t, sunday.Equal(res.To))
	assert.Equal(t, narrative.ScopeMicrocycle, res.Report.Scope)
}

func TestHandler_HandleMicrocycle_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := NewMockadherenceService(ctrl)
	r := setupRouterForTests(t, mockService, nil)

	testCases := []struct {
		name           string
		query          string
		serviceErr     error
		expectedStatus int
	}{
		{name: "MissingFrom", query: "to=2024-03-17", expectedStatus: http.StatusBadRequest},
		{name: "InvalidTo", query: "from=2024-03-11&to=tomorrow", expectedStatus: http.StatusBadRequest},
		{
			name:           "ReversedRange",
			query:          "from=2024-03-17&to=2024-03-11",
			serviceErr:     fmt.Errorf("%w: reversed", service.ErrInvalidRange),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "TooLong",
			query:          "from=2024-01-01&to=2024-03-11",
			serviceErr:     fmt.Errorf("%w: 71 days", service.ErrRangeTooLong),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "RepoFailure",
			query:          "from=2024-03-11&to=2024-03-17",
			serviceErr:     errors.New("db down"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.serviceErr != nil {
				mockService.EXPECT().
					Microcycle(gomock.Any(), "u1", gomock.Any(), gomock.Any()).
					Return(nil, tc.serviceErr)
			}

			req := httptest.NewRequest(http.MethodGet, "/adherence/u1/microcycle?"+tc.query, nil)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}

func TestHandler_HandleEvaluate(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := NewMockadherenceService(ctrl)
	r := setupRouterForTests(t, mockService, nil)

	weights := adherence.Weights{Nutrition: 0.4, Training: 0.4, Sleep: 0.1, Supplements: 0.1}
	body, err := json.Marshal(service.EvaluateRequest{DayLogs: dayLogs(monday), Weights: &weights})
	require.NoError(t, err)

	mockService.EXPECT().
		Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, logs adherence.DayLogs, w *adherence.Weights) (*service.DayResult, error) {
			assert.True(t, monday.Equal(logs.Date))
			assert.Len(t, logs.Meals, 1)
			assert.Len(t, logs.Sets, 3)
			require.NotNil(t, w)
			assert.Equal(t, weights, *w)

			day := adherence.BuildDay(logs, *w)
			return &service.DayResult{Day: day, Report: narrative.NarrateDay(day)}, nil
		})

	req := httptest.NewRequest(http.MethodPost, "/adherence/evaluate", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var res service.DayResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.True(t, res.Day.HasData)
	assert.Len(t, res.Day.DomainScores, 4)
}

func TestHandler_HandleEvaluate_BadRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := NewMockadherenceService(ctrl)
	r := setupRouterForTests(t, mockService, nil)

	req := httptest.NewRequest(http.MethodPost, "/adherence/evaluate", bytes.NewBufferString(`{}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "missing content type")

	req = httptest.NewRequest(http.MethodPost, "/adherence/evaluate", bytes.NewBufferString(`{"date":`))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "broken json")

	mockService.EXPECT().
		Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: weights sum to 1.2000, expected 1.0", adherence.ErrInvalidWeights))
	req = httptest.NewRequest(http.MethodPost, "/adherence/evaluate",
		bytes.NewBufferString(`{"date":"2024-03-11T00:00:00Z","weights":{"nutrition":0.6,"training":0.6}}`))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "invalid weights")
}

func TestHandler_HandleEvaluate_RateLimited(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := NewMockadherenceService(ctrl)
	limiter := &testRequestRateLimiter{Allowed: map[string]int{"evaluate::192.0.2.1": 1}}
	r := setupRouterForTests(t, mockService, limiter)

	mockService.EXPECT().
		Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&service.DayResult{}, nil).
		Times(1)

	for i, expectedStatus := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/adherence/evaluate", bytes.NewBufferString(`{"date":"2024-03-11T00:00:00Z"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, expectedStatus, rr.Code, "request %d", i)
	}
}
