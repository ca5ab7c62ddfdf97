package auth

import (
	"context"
	"fmt"

	firebaseAuth "firebase.google.com/go/v4/auth"
)

// AnonymousName is shown for users whose account carries no display name.
const AnonymousName = "Anonymous"

// Identity is the already authenticated user acting on the reviews.
type Identity struct {
	UID         string
	DisplayName string
}

type Verifier interface {
	Verify(ctx context.Context, idToken string) (Identity, error)
}

// FirebaseVerifier resolves Firebase ID tokens.
type FirebaseVerifier struct {
	client *firebaseAuth.Client
}

var _ Verifier = FirebaseVerifier{}

func NewFirebaseVerifier(client *firebaseAuth.Client) FirebaseVerifier {
	return FirebaseVerifier{client: client}
}

func (v FirebaseVerifier) Verify(ctx context.Context, idToken string) (Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return Identity{}, fmt.Errorf("verify id token: %w", err)
	}

	name, _ := token.Claims["name"].(string)
	return NewIdentity(token.UID, name), nil
}

func NewIdentity(uid, displayName string) Identity {
	if displayName == "" {
		displayName = AnonymousName
	}
	return Identity{UID: uid, DisplayName: displayName}
}
