package auth

import (
	"context"
	"errors"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIDTokens struct {
	tokens map[string]*fbauth.Token
}

func (f fakeIDTokens) VerifyIDToken(_ context.Context, idToken string) (*fbauth.Token, error) {
	if tok, ok := f.tokens[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("ID token has invalid signature")
}

func TestFirebaseVerifier(t *testing.T) {
	v := NewFirebaseVerifier(fakeIDTokens{tokens: map[string]*fbauth.Token{
		"good": {UID: "fb-uid-1", Claims: map[string]interface{}{"email": "fb@example.com"}},
	}})

	p, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "fb-uid-1", p.ID)
	assert.Equal(t, "fb@example.com", p.Email)

	_, err = v.Verify(context.Background(), "bad")
	assert.Error(t, err)

	_, err = v.Verify(context.Background(), "")
	assert.Error(t, err)
}
