// Package firebaseauth verifies Firebase ID tokens issued to the mobile clients.
package firebaseauth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// AccountClaim is the custom claim set at sign-up that links a Firebase user to an account.
const AccountClaim = "account_id"

var ErrMissingAccountClaim = errors.New("token has no account claim")

// Config holds Firebase project settings
type Config struct {
	ProjectID       string
	CredentialsJSON string // optional; falls back to application default credentials
}

// Verifier verifies ID tokens and resolves the linked account id
type Verifier struct {
	client *fbauth.Client
}

// NewVerifier initializes the Firebase Auth client
func NewVerifier(ctx context.Context, cfg Config) (*Verifier, error) {
	var opts []option.ClientOption
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return &Verifier{client: client}, nil
}

// VerifyToken verifies an ID token and returns the account id from its claims
func (v *Verifier) VerifyToken(ctx context.Context, idToken string) (uuid.UUID, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return uuid.Nil, err
	}
	return AccountID(token.Claims)
}

// AccountID extracts the account id custom claim
func AccountID(claims map[string]interface{}) (uuid.UUID, error) {
	raw, ok := claims[AccountClaim].(string)
	if !ok || raw == "" {
		return uuid.Nil, ErrMissingAccountClaim
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("account claim: %w", err)
	}
	return id, nil
}
