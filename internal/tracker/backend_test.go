package tracker

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timestrap/internal/api"
	"timestrap/internal/auth"
	"timestrap/internal/config"
	"timestrap/internal/domain"
	"timestrap/internal/errors"
	"timestrap/internal/mail"
	"timestrap/internal/repository/sqlstore"
	"timestrap/internal/server"
	"timestrap/internal/services"
)

type backendEnv struct {
	api    api.BusinessAPI
	store  *sqlstore.Store
	mailer *mail.LogMailer
	tokens *auth.TokenManager
	config *config.Config
}

func newBackendEnv(t *testing.T) *backendEnv {
	t.Helper()
	ctx := context.Background()
	store, err := sqlstore.Open(ctx, sqlstore.DialectSQLite, filepath.Join(t.TempDir(), "tracker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.CreateEmployee(ctx, &sqlstore.Employee{Code: "E001", Name: "Ada Lovelace"}))

	cfg := config.NewConfig()
	cfg.Auth.JWTSecret = "tracker-secret"
	cfg.Mail.TimesheetRecipients = []string{"manager@example.com"}

	tokens := auth.NewTokenManager(auth.Config{Secret: cfg.Auth.JWTSecret, TTL: time.Hour, Issuer: cfg.Auth.Issuer})
	mailer := mail.NewLogMailer(zerolog.Nop())
	return &backendEnv{
		api:    api.New(api.Dependencies{Repo: store, Config: cfg, Mailer: mailer, Tokens: tokens, Logger: zerolog.Nop()}),
		store:  store,
		mailer: mailer,
		tokens: tokens,
		config: cfg,
	}
}

// serve runs the HTTP server on a loopback port and returns its base URL.
func (e *backendEnv) serve(t *testing.T, requireAuth bool) string {
	t.Helper()
	cfg := e.config.Server
	cfg.RequireAuth = requireAuth
	srv := server.New(e.api, e.tokens, cfg, zerolog.Nop())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.App().Listener(ln) }()
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	return "http://" + ln.Addr().String()
}

func TestHTTPBackend_EndToEnd(t *testing.T) {
	env := newBackendEnv(t)
	backend := NewHTTPBackend(env.serve(t, true), 5*time.Second)
	ctx := context.Background()

	session, err := backend.Login(ctx, "E001", "ada lovelace")
	require.NoError(t, err)
	assert.Equal(t, "E001", session.EmployeeID)
	assert.Equal(t, "Ada Lovelace", session.EmployeeName)
	require.NotEmpty(t, session.Token)

	clock := newFakeClock(day.Add(9 * time.Hour))
	sheet, err := NewSheet(session, Options{
		Clock:     clock,
		Date:      day,
		Shift:     domain.ShiftShort,
		Persister: backend,
		Gateway:   backend,
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)

	task, err := sheet.AddTask(domain.Task{
		Project:     "Apollo",
		Title:       "Build API",
		Tools:       []string{"Go"},
		TimeEntries: []domain.TimeEntry{domain.NewClosedTimeEntry(day, day.Add(4*time.Hour))},
	})
	require.NoError(t, err)

	result, err := sheet.Flush(ctx)
	require.NoError(t, err)
	require.Equal(t, FlushResult{Delivered: 1}, result)

	stored, _ := sheet.Task(task.ID)
	require.True(t, stored.Persisted)
	w, err := env.api.GetWorkLog(ctx, stored.WorklogID)
	require.NoError(t, err)
	assert.Equal(t, "Apollo", w.ProjectName)
	assert.Equal(t, 240, w.TotalMinutes)
	assert.Equal(t, domain.ShiftShort, w.Shift)

	require.NoError(t, sheet.SetCompletionPercent(task.ID, 80))
	result, err = sheet.Flush(ctx)
	require.NoError(t, err)
	require.Equal(t, FlushResult{Delivered: 1}, result)
	w, err = env.api.GetWorkLog(ctx, stored.WorklogID)
	require.NoError(t, err)
	assert.Equal(t, 80, w.CompletionPercent)

	require.NoError(t, sheet.Submit(ctx))
	sent := env.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Subject, "Ada Lovelace")
}

func TestHTTPBackend_RejectsForeignToken(t *testing.T) {
	env := newBackendEnv(t)
	ctx := context.Background()
	require.NoError(t, env.store.CreateEmployee(ctx, &sqlstore.Employee{Code: "E002", Name: "Grace Hopper"}))
	backend := NewHTTPBackend(env.serve(t, true), 5*time.Second)

	grace, err := backend.Login(ctx, "E002", "Grace Hopper")
	require.NoError(t, err)

	session := Session{EmployeeID: "E001", EmployeeName: "Ada Lovelace", Token: grace.Token}
	_, err = backend.Persist(ctx, session, PersistRequest{
		Date:  "2024-01-15",
		Shift: domain.ShiftStandard,
		Task:  worked("Apollo", time.Hour),
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypePermission))
	assert.False(t, errors.IsRetryable(err))
}

func TestHTTPBackend_StatusMapping(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		expectedType  errors.ErrorType
		expectedCode  string
		retryable     bool
		expectMessage string
	}{
		{
			name:          "should map bad request to validation",
			status:        http.StatusBadRequest,
			body:          `{"success":false,"message":"project is required","code":"VALIDATION_ERROR"}`,
			expectedType:  errors.ErrorTypeValidation,
			expectedCode:  "VALIDATION_ERROR",
			expectMessage: "project is required",
		},
		{
			name:         "should map unauthorized to permission",
			status:       http.StatusUnauthorized,
			body:         `{"success":false,"message":"missing token","code":"UNAUTHORIZED"}`,
			expectedType: errors.ErrorTypePermission,
			expectedCode: "UNAUTHORIZED",
		},
		{
			name:         "should map not found",
			status:       http.StatusNotFound,
			expectedType: errors.ErrorTypeNotFound,
		},
		{
			name:         "should map conflict",
			status:       http.StatusConflict,
			expectedType: errors.ErrorTypeConflict,
			retryable:    true,
		},
		{
			name:          "should map server error to retryable delivery",
			status:        http.StatusInternalServerError,
			body:          "not json",
			expectedType:  errors.ErrorTypeDelivery,
			retryable:     true,
			expectMessage: "Internal Server Error",
		},
		{
			name:         "should map bad gateway to delivery",
			status:       http.StatusBadGateway,
			expectedType: errors.ErrorTypeDelivery,
			retryable:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			backend := NewHTTPBackend(ts.URL, time.Second)
			_, err := backend.Persist(context.Background(), ada, PersistRequest{Task: worked("Apollo", time.Hour)})

			require.Error(t, err)
			appErr, ok := errors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.expectedType, appErr.Type)
			assert.Equal(t, tt.retryable, errors.IsRetryable(err))
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, appErr.Code)
			}
			if tt.expectMessage != "" {
				assert.Equal(t, tt.expectMessage, appErr.Message)
			}
			status, _ := appErr.GetContext("status")
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestHTTPBackend_Requests(t *testing.T) {
	var (
		gotAuth    string
		gotPath    string
		gotMethod  string
		gotRequest services.WorklogRequest
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotRequest)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"worklogId":41}`))
	}))
	defer ts.Close()

	backend := NewHTTPBackend(ts.URL+"/", time.Second)
	session := ada
	session.Token = "abc"
	task := worked("Apollo", 90*time.Minute)
	task.Tools = []string{"Go"}

	id, err := backend.Persist(context.Background(), session, PersistRequest{Date: "2024-01-15", Shift: domain.ShiftLong, Task: task})
	require.NoError(t, err)
	assert.Equal(t, int64(41), id)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/worklogs", gotPath)
	assert.Equal(t, "E001", gotRequest.EmployeeCode)
	assert.Equal(t, "12hr", gotRequest.Shift)
	assert.Equal(t, []string{"Go"}, gotRequest.Tools)
	require.Len(t, gotRequest.TimeEntries, 1)
	assert.Equal(t, day.Add(90*time.Minute), gotRequest.TimeEntries[0].EndTime.UTC())

	task.WorklogID = 7
	id, err = backend.Persist(context.Background(), session, PersistRequest{Date: "2024-01-15", Shift: domain.ShiftLong, Task: task})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/worklogs/7", gotPath)
}

func TestHTTPBackend_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	backend := NewHTTPBackend(url, time.Second)
	err := backend.Submit(context.Background(), ada, domain.TimesheetBundle{})

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeDelivery))
	assert.True(t, errors.IsRetryable(err))
}

func TestLocalBackend(t *testing.T) {
	env := newBackendEnv(t)
	backend := NewLocalBackend(env.api)
	ctx := context.Background()

	sheet, err := NewSheet(ada, Options{
		Clock:     newFakeClock(day),
		Date:      day,
		Shift:     domain.ShiftStandard,
		Persister: backend,
		Gateway:   backend,
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)

	_, err = sheet.AddTask(worked("Apollo", 5*time.Hour))
	require.NoError(t, err)
	_, err = sheet.AddTask(worked("Gemini", 3*time.Hour))
	require.NoError(t, err)

	result, err := sheet.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, FlushResult{Delivered: 2}, result)

	logs, err := env.api.ListEmployeeWorkLogs(ctx, "E001", "2024-01-15")
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	require.NoError(t, sheet.Submit(ctx))
	assert.Len(t, env.mailer.Sent(), 1)
}

func TestLocalBackend_UnknownEmployeeIsRejected(t *testing.T) {
	env := newBackendEnv(t)
	backend := NewLocalBackend(env.api)

	sheet, err := NewSheet(Session{EmployeeID: "E404", EmployeeName: "Nobody"}, Options{
		Clock:     newFakeClock(day),
		Date:      day,
		Persister: backend,
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)
	_, err = sheet.AddTask(worked("Apollo", time.Hour))
	require.NoError(t, err)

	result, err := sheet.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FlushResult{Rejected: 1}, result)
	assert.Len(t, sheet.Tasks(), 1)
}
