// Package settings exposes the admin-managed config documents: the zipcode
// allow-list and the content filter blocklists. A missing document reads as empty.
package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/neighborly/neighborly-api/internal/domain/contentfilter"
)

type allowedZipcodes struct {
	Zipcodes []string `json:"zipcodes"`
}

// Service reads config documents on every call; they are small and admin edits
// must apply immediately.
type Service struct {
	repo Repository
}

// NewService creates settings service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// IsZipcodeAllowed reports whether zip is on the allow-list
func (s *Service) IsZipcodeAllowed(ctx context.Context, zip string) (bool, error) {
	var doc allowedZipcodes
	if err := s.load(ctx, KeyAllowedZipcodes, &doc); err != nil {
		return false, err
	}
	for _, z := range doc.Zipcodes {
		if z == zip {
			return true, nil
		}
	}
	return false, nil
}

// Blocklists returns the current blocklists
func (s *Service) Blocklists(ctx context.Context) (contentfilter.Blocklists, error) {
	var lists contentfilter.Blocklists
	if err := s.load(ctx, KeyBlocklists, &lists); err != nil {
		return contentfilter.Blocklists{}, err
	}
	return lists, nil
}

// Filter implements contentfilter.Provider
func (s *Service) Filter(ctx context.Context) (*contentfilter.Filter, error) {
	lists, err := s.Blocklists(ctx)
	if err != nil {
		return nil, err
	}
	return contentfilter.New(lists), nil
}

func (s *Service) load(ctx context.Context, key string, v interface{}) error {
	raw, err := s.repo.Get(ctx, key)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
