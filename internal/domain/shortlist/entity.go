package shortlist

import (
	"time"

	"github.com/google/uuid"
)

// NoteMaxLen is the shortlist note limit in characters
const NoteMaxLen = 300

// Shortlist is a teen's suggestion to their parent (matches shortlists table)
type Shortlist struct {
	ID        uuid.UUID `db:"id"`
	TeenID    uuid.UUID `db:"teen_id"`
	ParentID  uuid.UUID `db:"parent_id"`
	PostID    uuid.UUID `db:"post_id"`
	Note      string    `db:"note"`
	CreatedAt time.Time `db:"created_at"`
}
