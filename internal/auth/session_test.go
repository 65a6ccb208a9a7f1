package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestParseIdentity(t *testing.T) {
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name       string
		token      string
		wantUserID string
		wantErr    error
	}{
		{
			name:       "valid token",
			token:      signTestToken(t, jwt.MapClaims{"sub": "student-17", "exp": future.Unix()}),
			wantUserID: "student-17",
		},
		{
			name:       "no expiry claim",
			token:      signTestToken(t, jwt.MapClaims{"sub": "student-17"}),
			wantUserID: "student-17",
		},
		{
			name:    "empty token",
			token:   "   ",
			wantErr: ErrEmptyToken,
		},
		{
			name:    "missing subject",
			token:   signTestToken(t, jwt.MapClaims{"exp": future.Unix()}),
			wantErr: ErrMissingSubject,
		},
		{
			name:    "expired token",
			token:   signTestToken(t, jwt.MapClaims{"sub": "student-17", "exp": time.Now().Add(-time.Minute).Unix()}),
			wantErr: ErrTokenExpired,
		},
		{
			name:    "not a jwt",
			token:   "not.a.token",
			wantErr: jwt.ErrTokenMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := ParseIdentity(tt.token)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantUserID, identity.UserID)
		})
	}
}

func TestIdentity_Expired(t *testing.T) {
	now := time.Now()

	assert.False(t, Identity{}.Expired(now), "zero expiry never expires")
	assert.False(t, Identity{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Identity{ExpiresAt: now.Add(-time.Minute)}.Expired(now))
}
