package notification

import (
	"context"
	"time"
)

// EventType represents the type of state-change event pushed to the sink
type EventType string

const (
	TypeAttendanceClockIn  EventType = "attendance_clock_in"
	TypeAttendanceClockOut EventType = "attendance_clock_out"
	TypeAttendanceDecided  EventType = "attendance_decided"
	TypeLeaveApplied       EventType = "leave_applied"
	TypeLeaveApproved      EventType = "leave_approved"
	TypeLeaveRejected      EventType = "leave_rejected"
	TypeLeaveCancelled     EventType = "leave_cancelled"
	TypeOTPIssued          EventType = "otp_issued"
)

// Event is a state-change notification delivered to a recipient for display.
type Event struct {
	ID          string                 `json:"id"`
	RecipientID string                 `json:"recipient_id"`
	Type        EventType              `json:"type"`
	Message     string                 `json:"message"`
	Data        map[string]interface{} `json:"data,omitempty"`
	OccurredAt  time.Time              `json:"occurred_at"`
}

// Sink receives state-change events for display. Delivery is best-effort:
// implementations must never fail the operation that produced the event.
type Sink interface {
	Notify(ctx context.Context, event Event)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Notify(ctx context.Context, event Event) {}
