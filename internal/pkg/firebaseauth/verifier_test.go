package firebaseauth

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestAccountID(t *testing.T) {
	id := uuid.New()

	got, err := AccountID(map[string]interface{}{AccountClaim: id.String()})
	if err != nil {
		t.Fatalf("AccountID returned error: %v", err)
	}
	if got != id {
		t.Fatalf("expected %s, got %s", id, got)
	}
}

func TestAccountIDMissing(t *testing.T) {
	_, err := AccountID(map[string]interface{}{"email": "a@b.co"})
	if !errors.Is(err, ErrMissingAccountClaim) {
		t.Fatalf("expected ErrMissingAccountClaim, got %v", err)
	}
}

func TestAccountIDMalformed(t *testing.T) {
	if _, err := AccountID(map[string]interface{}{AccountClaim: "not-a-uuid"}); err == nil {
		t.Fatalf("expected error for malformed claim")
	}
}
