package tracker

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"timestrap/internal/config"
	"timestrap/internal/errors"
)

// IntentStatus is the delivery state of a persist intent.
type IntentStatus string

const (
	IntentPending   IntentStatus = "pending"
	IntentDelivered IntentStatus = "delivered"
	IntentRejected  IntentStatus = "rejected"
)

// Intent records that a task still has to reach the backend.
type Intent struct {
	ID          string       `json:"id"`
	TaskID      string       `json:"taskId"`
	Status      IntentStatus `json:"status"`
	Attempts    int          `json:"attempts"`
	NextAttempt time.Time    `json:"nextAttempt"`
	LastError   string       `json:"lastError,omitempty"`
	WorklogID   int64        `json:"worklogId,omitempty"`

	claimed bool
}

// RetryPolicy bounds redelivery of transient failures.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryPolicy returns the default retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicyFromConfig(config.NewConfig().Outbox)
}

// RetryPolicyFromConfig reads the retry policy from the outbox settings.
func RetryPolicyFromConfig(cfg config.OutboxConfig) RetryPolicy {
	return RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.BaseRetryDelay,
		MaxDelay:   cfg.MaxRetryDelay,
	}
}

// Delay returns the wait before retry number attempt (1-based): BaseDelay * 2^(attempt-1),
// capped at MaxDelay.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := float64(p.BaseDelay) * math.Pow(2, float64(attempt-1))
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	return time.Duration(delay)
}

// Outbox tracks persist intents. It is safe for concurrent use.
type Outbox struct {
	mu      sync.Mutex
	policy  RetryPolicy
	intents []*Intent
}

// NewOutbox creates an empty outbox.
func NewOutbox(policy RetryPolicy) *Outbox {
	return &Outbox{policy: policy}
}

// Record adds a pending intent for the task, due at now. A task that already has a pending
// intent that is not being delivered keeps it and becomes due again.
func (o *Outbox) Record(taskID string, now time.Time) Intent {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, in := range o.intents {
		if in.TaskID == taskID && in.Status == IntentPending && !in.claimed {
			in.NextAttempt = now
			return *in
		}
	}
	in := &Intent{
		ID:          uuid.NewString(),
		TaskID:      taskID,
		Status:      IntentPending,
		NextAttempt: now,
	}
	o.intents = append(o.intents, in)
	return *in
}

// Claim returns the pending intents whose next attempt is not after now and marks them as
// being delivered. Claimed intents are not handed out again until Delivered or Failed.
func (o *Outbox) Claim(now time.Time) []Intent {
	o.mu.Lock()
	defer o.mu.Unlock()

	var due []Intent
	for _, in := range o.intents {
		if in.Status == IntentPending && !in.claimed && !in.NextAttempt.After(now) {
			in.claimed = true
			due = append(due, *in)
		}
	}
	return due
}

// RetryNow makes every pending intent due at now.
func (o *Outbox) RetryNow(now time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, in := range o.intents {
		if in.Status == IntentPending {
			in.NextAttempt = now
		}
	}
}

// Delivered marks an intent as stored under worklogID.
func (o *Outbox) Delivered(id string, worklogID int64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if in := o.find(id); in != nil {
		in.Status = IntentDelivered
		in.WorklogID = worklogID
		in.LastError = ""
		in.claimed = false
	}
}

// Failed records a failed attempt. Errors that cannot succeed on repetition, and intents
// that have used up their retries, become rejected; others are rescheduled with backoff.
func (o *Outbox) Failed(id string, err error, now time.Time) IntentStatus {
	o.mu.Lock()
	defer o.mu.Unlock()

	in := o.find(id)
	if in == nil {
		return ""
	}
	in.claimed = false
	in.Attempts++
	in.LastError = err.Error()

	if !errors.IsRetryable(err) || in.Attempts >= o.policy.MaxRetries {
		in.Status = IntentRejected
		return in.Status
	}
	in.NextAttempt = now.Add(o.policy.Delay(in.Attempts))
	return in.Status
}

// Release returns a claimed intent to the pending set without counting an attempt.
func (o *Outbox) Release(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if in := o.find(id); in != nil {
		in.claimed = false
	}
}

// Reject marks an intent rejected without counting an attempt.
func (o *Outbox) Reject(id string, reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if in := o.find(id); in != nil {
		in.Status = IntentRejected
		in.LastError = reason
		in.claimed = false
	}
}

// HasPending reports whether the task still has an undelivered intent.
func (o *Outbox) HasPending(taskID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, in := range o.intents {
		if in.TaskID == taskID && in.Status == IntentPending {
			return true
		}
	}
	return false
}

// Intents returns a snapshot of every intent in recording order.
func (o *Outbox) Intents() []Intent {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]Intent, len(o.intents))
	for i, in := range o.intents {
		out[i] = *in
	}
	return out
}

// Pending counts intents that are still to be delivered.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := 0
	for _, in := range o.intents {
		if in.Status == IntentPending {
			n++
		}
	}
	return n
}

func (o *Outbox) find(id string) *Intent {
	for _, in := range o.intents {
		if in.ID == id {
			return in
		}
	}
	return nil
}
