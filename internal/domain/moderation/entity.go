package moderation

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReportReason is the closed set of report categories
type ReportReason string

const (
	ReportReasonSpam          ReportReason = "spam"
	ReportReasonHarassment    ReportReason = "harassment"
	ReportReasonInappropriate ReportReason = "inappropriate_content"
	ReportReasonScam          ReportReason = "scam"
	ReportReasonSafetyConcern ReportReason = "safety_concern"
	ReportReasonImpersonation ReportReason = "impersonation"
	ReportReasonUnderageRisk  ReportReason = "underage_risk"
	ReportReasonOther         ReportReason = "other"
)

var validReasons = map[ReportReason]bool{
	ReportReasonSpam:          true,
	ReportReasonHarassment:    true,
	ReportReasonInappropriate: true,
	ReportReasonScam:          true,
	ReportReasonSafetyConcern: true,
	ReportReasonImpersonation: true,
	ReportReasonUnderageRisk:  true,
	ReportReasonOther:         true,
}

// ReportStatus represents the status of a report
type ReportStatus string

const ReportStatusPending ReportStatus = "pending"

// Reporter spam heuristic: this many reports from one account in the trailing
// window flags every further report for review.
const (
	FlaggedReporterThreshold = 50
	FlaggedReporterWindow    = 24 * time.Hour
	snapshotTextLimit        = 200
)

// UserBlock is a directed block relation; its id is "<blockerId>_<blockedId>"
type UserBlock struct {
	ID        string    `db:"id"`
	BlockerID uuid.UUID `db:"blocker_id"`
	BlockedID uuid.UUID `db:"blocked_id"`
	CreatedAt time.Time `db:"created_at"`
}

// BlockID returns the deterministic id of the relation blocker -> blocked
func BlockID(blockerID, blockedID uuid.UUID) string {
	return blockerID.String() + "_" + blockedID.String()
}

// Report is an immutable moderation intake record
type Report struct {
	ID                   uuid.UUID        `db:"id"`
	ReporterID           uuid.UUID        `db:"reporter_id"`
	Reason               ReportReason     `db:"reason"`
	TargetUserID         uuid.NullUUID    `db:"target_user_id"`
	TargetPostID         uuid.NullUUID    `db:"target_post_id"`
	TargetMessageID      uuid.NullUUID    `db:"target_message_id"`
	TargetConversationID uuid.NullUUID    `db:"target_conversation_id"`
	ReportedUserID       uuid.NullUUID    `db:"reported_user_id"`
	Description          string           `db:"description"`
	ContextSnapshot      *ContextSnapshot `db:"context_snapshot"`
	IsFlaggedReporter    bool             `db:"is_flagged_reporter"`
	Status               ReportStatus     `db:"status"`
	CreatedAt            time.Time        `db:"created_at"`
}

// Snapshot kinds
const (
	SnapshotUser    = "user"
	SnapshotPost    = "post"
	SnapshotMessage = "message"
)

// ContextSnapshot freezes what the reported content looked like when the report
// was filed, so later edits or deletions cannot change the evidence.
type ContextSnapshot struct {
	Kind             string    `json:"kind"`
	AuthorID         uuid.UUID `json:"authorId"`
	AuthorName       string    `json:"authorName,omitempty"`
	AuthorRole       string    `json:"authorRole,omitempty"`
	Title            string    `json:"title,omitempty"`
	Text             string    `json:"text,omitempty"`
	ServiceType      string    `json:"serviceType,omitempty"`
	ContentCreatedAt time.Time `json:"contentCreatedAt"`
	CapturedAt       time.Time `json:"capturedAt"`
}

// Value implements driver.Valuer for the JSONB column
func (s ContextSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for the JSONB column
func (s *ContextSnapshot) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("context snapshot: unsupported source type")
	}
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
