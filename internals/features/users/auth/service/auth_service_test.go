package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	userModel "sekolahku_backend/internals/features/users/user/model"
)

func signAccessToken(t *testing.T, u userModel.UserModel, now time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildAccessClaims(u, now)).
		SignedString([]byte("unit-test-secret"))
	require.NoError(t, err)
	return token
}

func TestAccessTokensUniqueWithinSameSecond(t *testing.T) {
	user := userModel.UserModel{ID: uuid.New(), UserName: "siti", Role: "student"}
	now := time.Now()

	// dua login dengan timestamp yang sama — token tetap harus beda,
	// karena token_hash di user_device_sessions unik
	t1 := signAccessToken(t, user, now)
	t2 := signAccessToken(t, user, now)
	require.NotEqual(t, t1, t2)
}

func TestAccessClaimsCarryUniqueJTI(t *testing.T) {
	user := userModel.UserModel{ID: uuid.New(), UserName: "budi", Role: "teacher"}
	now := time.Now()

	c1 := buildAccessClaims(user, now)
	c2 := buildAccessClaims(user, now)

	jti1, ok := c1["jti"].(string)
	require.True(t, ok)
	require.NotEmpty(t, jti1)
	jti2, ok := c2["jti"].(string)
	require.True(t, ok)
	require.NotEqual(t, jti1, jti2)

	require.Equal(t, user.ID.String(), c1["sub"])
	require.Equal(t, "teacher", c1["role"])
	require.Equal(t, now.Unix(), c1["iat"])
	require.Equal(t, now.Add(accessTTLDefault).Unix(), c1["exp"])
}
