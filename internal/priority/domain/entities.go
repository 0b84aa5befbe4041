package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is an inbound, already-classified message snapshot. Category and
// labels are opaque strings assigned upstream; the scorer never interprets
// them beyond weight lookup and prefix matching.
type Message struct {
	ID            uuid.UUID   `json:"id"`
	ProjectID     uuid.UUID   `json:"project_id,omitempty"`
	Subject       string      `json:"subject"`
	Sender        string      `json:"sender"`
	Category      string      `json:"category"`
	Labels        []string    `json:"labels,omitempty"`
	Confidence    *float64    `json:"confidence,omitempty"`
	ReceivedAt    *time.Time  `json:"received_at,omitempty"`
	Unread        bool        `json:"unread"`
	Triage        TriageState `json:"triage"`
	SnoozedUntil  *time.Time  `json:"snoozed_until,omitempty"`
	HasAttachment bool        `json:"has_attachment"`
}

// Task is a work item snapshot.
type Task struct {
	ID        uuid.UUID  `json:"id"`
	ProjectID uuid.UUID  `json:"project_id,omitempty"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	Priority  int        `json:"priority"` // user-set manual priority, 0..5
}

// TimelineItem is a time-bound entry on a project timeline.
type TimelineItem struct {
	ID        uuid.UUID  `json:"id"`
	ProjectID uuid.UUID  `json:"project_id,omitempty"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	Lane      string     `json:"lane,omitempty"`
	Territory string     `json:"territory,omitempty"`
	City      string     `json:"city,omitempty"`
	Timezone  string     `json:"timezone,omitempty"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	Priority  int        `json:"priority"`
}

// Dependency is a scheduling constraint between two timeline items.
type Dependency struct {
	ID       uuid.UUID      `json:"id"`
	FromID   uuid.UUID      `json:"from_id"`
	ToID     uuid.UUID      `json:"to_id"`
	Kind     DependencyKind `json:"kind"`
	Resolved bool           `json:"resolved"`
}

// Thread is a conversation thread snapshot with pre-aggregated signals.
type Thread struct {
	ID                   uuid.UUID  `json:"id"`
	ProjectID            uuid.UUID  `json:"project_id,omitempty"`
	Subject              string     `json:"subject"`
	LastMessageAt        *time.Time `json:"last_message_at,omitempty"`
	RecentMessageCount   int        `json:"recent_message_count"`
	UnreadCount          int        `json:"unread_count"`
	DeadlineAt           *time.Time `json:"deadline_at,omitempty"`
	UrgentKeyword        bool       `json:"urgent_keyword"`
	ExpectedReplyOverdue bool       `json:"expected_reply_overdue"`
	InterestAttachments  int        `json:"interest_attachments"`
	ProjectPriority      int        `json:"project_priority"` // 0..5
	UnansweredQuestions  int        `json:"unanswered_questions"`
	OldestQuestionHours  float64    `json:"oldest_question_hours"`
}

// IsSnoozed reports whether the message is in the snoozed triage state. The
// idle-age dampener applies regardless of whether the snooze has expired.
func (m Message) IsSnoozed() bool {
	return m.Triage == TriageSnoozed
}
