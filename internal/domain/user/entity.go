package user

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role represents account role
type Role string

const (
	RoleParent Role = "parent"
	RoleTeen   Role = "teen"
)

// BlockReason records why an account was blocked. Only strike escalation blocks
// are lifted automatically.
type BlockReason string

const (
	BlockReasonNone             BlockReason = ""
	BlockReasonStrikeEscalation BlockReason = "strike_escalation"
	BlockReasonManual           BlockReason = "manual"
)

// Strike thresholds applied by enforcement and reversed by decay
const (
	ChatRestrictionStrikes = 3
	BlockStrikes           = 5
)

// User represents an account (matches users table)
type User struct {
	ID          uuid.UUID      `db:"id"`
	DisplayName string         `db:"display_name"`
	Email       sql.NullString `db:"email"`
	Phone       sql.NullString `db:"phone"`
	Role        Role           `db:"role"`
	ParentID    uuid.NullUUID  `db:"parent_id"`

	IsBlocked        bool         `db:"is_blocked"`
	BlockReason      BlockReason  `db:"block_reason"`
	IsChatRestricted bool         `db:"is_chat_restricted"`
	StrikeCount      int          `db:"strike_count"`
	LastStrikeAt     sql.NullTime `db:"last_strike_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (u *User) IsParent() bool { return u.Role == RoleParent }
func (u *User) IsTeen() bool   { return u.Role == RoleTeen }

// IsParentOf reports whether u is the linked parent of teen
func (u *User) IsParentOf(teen *User) bool {
	return teen != nil && teen.ParentID.Valid && teen.ParentID.UUID == u.ID
}

// Snapshot freezes the public identity fields of u
func (u *User) Snapshot() Snapshot {
	return Snapshot{UserID: u.ID, DisplayName: u.DisplayName, Role: u.Role}
}

// Snapshot is a denormalized copy of an account's public fields, stored with
// content at creation time and never updated afterwards.
type Snapshot struct {
	UserID      uuid.UUID `json:"userId"`
	DisplayName string    `json:"displayName"`
	Role        Role      `json:"role"`
}

// Value implements driver.Valuer for JSONB columns
func (s Snapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB columns
func (s *Snapshot) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = Snapshot{}
		return nil
	default:
		return errors.New("snapshot: unsupported source type")
	}
}

// StrikeDecay is the change one decay step applies to an account
type StrikeDecay struct {
	UserID              uuid.UUID
	PriorCount          int
	NewCount            int
	ClearLastStrikeAt   bool
	LiftBlock           bool
	LiftChatRestriction bool
}

// NextStrikeDecay computes a single decay step. The count never goes below zero.
// A chat restriction is lifted on the first decay from ChatRestrictionStrikes or more.
// A block is lifted only when the count reaches zero and the block came from
// strike escalation (or predates block reasons).
func (u *User) NextStrikeDecay() StrikeDecay {
	d := StrikeDecay{UserID: u.ID, PriorCount: u.StrikeCount, NewCount: u.StrikeCount - 1}
	if d.NewCount < 0 {
		d.NewCount = 0
	}

	if d.NewCount == 0 {
		d.ClearLastStrikeAt = true
		if u.IsBlocked && u.blockedByStrikes() {
			d.LiftBlock = true
		}
	}

	if u.IsChatRestricted && d.PriorCount >= ChatRestrictionStrikes {
		d.LiftChatRestriction = true
	}

	return d
}

func (u *User) blockedByStrikes() bool {
	return u.BlockReason == BlockReasonStrikeEscalation || u.BlockReason == BlockReasonNone
}

// Apply mutates u with the decay step
func (d StrikeDecay) Apply(u *User) {
	u.StrikeCount = d.NewCount
	if d.ClearLastStrikeAt {
		u.LastStrikeAt = sql.NullTime{}
	}
	if d.LiftBlock {
		u.IsBlocked = false
		u.BlockReason = BlockReasonNone
	}
	if d.LiftChatRestriction {
		u.IsChatRestricted = false
	}
}
