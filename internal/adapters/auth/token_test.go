package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradefair/internal/domain"
)

func TestJWTIssuer_Issue(t *testing.T) {
	secret := "test-secret"
	token, err := NewJWTIssuer(secret).Issue("user-123", "sess-1", "u@example.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "sess-1", claims.ID)
	assert.Equal(t, "u@example.com", claims.Email)
}

func TestJWTVerifier_Verify(t *testing.T) {
	secret := "test-secret"
	valid, err := NewJWTIssuer(secret).Issue("user-1", "sess-1", "a@example.com", time.Hour)
	require.NoError(t, err)
	expired, err := NewJWTIssuer(secret).Issue("user-1", "sess-1", "a@example.com", -time.Minute)
	require.NoError(t, err)
	otherKey, err := NewJWTIssuer("other-secret").Issue("user-1", "sess-1", "a@example.com", time.Hour)
	require.NoError(t, err)
	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer, Subject: "user-1", ID: "sess-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid", token: valid},
		{name: "expired", token: expired, wantErr: true},
		{name: "wrong secret", token: otherKey, wantErr: true},
		{name: "none algorithm", token: noneAlg, wantErr: true},
		{name: "garbage", token: "not.a.jwt", wantErr: true},
	}
	verifier := NewJWTVerifier(secret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := verifier.Verify(tt.token)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-1", claims.UserID)
			assert.Equal(t, "sess-1", claims.SessionID)
			assert.Equal(t, "a@example.com", claims.Email)
		})
	}
}
