package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Config document keys
const (
	KeyAllowedZipcodes = "allowed_zipcodes"
	KeyBlocklists      = "blocklists"
)

// Repository reads admin-managed config documents
type Repository interface {
	// Get returns the raw document, or nil when it does not exist
	Get(ctx context.Context, key string) (json.RawMessage, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates config document repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var raw []byte
	err := r.db.GetContext(ctx, &raw, `SELECT value FROM app_config WHERE key = $1`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("settings repository get %s: %w", key, err)
	}
	return json.RawMessage(raw), nil
}
