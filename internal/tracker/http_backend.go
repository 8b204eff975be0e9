package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"timestrap/internal/domain"
	"timestrap/internal/errors"
)

// HTTPBackend talks to a timestrap server over its REST API.
type HTTPBackend struct {
	baseURL string
	client  *http.Client
}

// NewHTTPBackend creates a backend for the server at baseURL. A zero timeout means no
// client-side limit.
func NewHTTPBackend(baseURL string, timeout time.Duration) *HTTPBackend {
	return &HTTPBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type loginBody struct {
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
}

type loginReply struct {
	Employee domain.Identity `json:"employee"`
	Token    string          `json:"token"`
}

type worklogReply struct {
	WorklogID int64 `json:"worklogId"`
}

type submitBody struct {
	EmployeeName string        `json:"employeeName"`
	EmployeeID   string        `json:"employeeId"`
	Date         string        `json:"date"`
	Shift        string        `json:"shift"`
	Tasks        []domain.Task `json:"tasks"`
}

type errorReply struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Login exchanges an employee code and name for a session.
func (b *HTTPBackend) Login(ctx context.Context, employeeID, employeeName string) (Session, error) {
	var reply loginReply
	err := b.do(ctx, http.MethodPost, "/api/auth/login", "", loginBody{
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
	}, &reply)
	if err != nil {
		return Session{}, err
	}
	return Session{
		EmployeeID:   reply.Employee.EmployeeID,
		EmployeeName: reply.Employee.EmployeeName,
		Token:        reply.Token,
	}, nil
}

// Persist implements Persister.
func (b *HTTPBackend) Persist(ctx context.Context, session Session, req PersistRequest) (int64, error) {
	body := worklogRequest(session, req)
	if req.Task.WorklogID != 0 {
		path := fmt.Sprintf("/api/worklogs/%d", req.Task.WorklogID)
		if err := b.do(ctx, http.MethodPut, path, session.Token, body, nil); err != nil {
			return 0, err
		}
		return req.Task.WorklogID, nil
	}

	var reply worklogReply
	if err := b.do(ctx, http.MethodPost, "/api/worklogs", session.Token, body, &reply); err != nil {
		return 0, err
	}
	return reply.WorklogID, nil
}

// Submit implements Gateway.
func (b *HTTPBackend) Submit(ctx context.Context, session Session, bundle domain.TimesheetBundle) error {
	return b.do(ctx, http.MethodPost, "/api/submit-timesheet", session.Token, submitBody{
		EmployeeName: session.EmployeeName,
		EmployeeID:   session.EmployeeID,
		Date:         bundle.Date,
		Shift:        string(bundle.Shift),
		Tasks:        bundle.Tasks,
	}, nil)
}

func (b *HTTPBackend) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.NewInvalidInputError("server", b.baseURL, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errors.NewTimeoutError(method+" "+path, ctx.Err().Error())
		}
		return errors.NewDeliveryError(b.baseURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewDeliveryError(b.baseURL, err)
	}
	if resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.NewDeliveryError(b.baseURL, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// statusError maps a failed response back onto the error taxonomy.
func statusError(status int, body []byte) error {
	var reply errorReply
	_ = json.Unmarshal(body, &reply)
	message := reply.Message
	if message == "" {
		message = http.StatusText(status)
	}

	var errorType errors.ErrorType
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		errorType = errors.ErrorTypeValidation
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		errorType = errors.ErrorTypePermission
	case status == http.StatusNotFound:
		errorType = errors.ErrorTypeNotFound
	case status == http.StatusConflict:
		errorType = errors.ErrorTypeConflict
	case status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout:
		errorType = errors.ErrorTypeTimeout
	default:
		errorType = errors.ErrorTypeDelivery
	}

	appErr := errors.WrapError(fmt.Errorf("server returned %d", status), errorType, message)
	if reply.Code != "" {
		appErr.Code = reply.Code
	}
	return appErr.WithContext("status", status)
}
