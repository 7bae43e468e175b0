package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestIssueAndParseSessionToken(t *testing.T) {
	now := time.Now()
	token, err := IssueSessionToken(testSecret, "Tuesday", "09:00", "10:30", now)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseSessionToken(testSecret, token)
	require.NoError(t, err)
	require.Equal(t, AttendanceTokenKind, claims.Kind)
	require.Equal(t, "Tuesday", claims.Day)
	require.Equal(t, "09:00", claims.StartTime)
	require.Equal(t, "10:30", claims.EndTime)
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	token, err := IssueSessionToken(testSecret, "Monday", "07:00", "08:00", time.Now())
	require.NoError(t, err)

	_, err = ParseSessionToken("secret-lain", token)
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestParseSessionTokenExpiryWindow(t *testing.T) {
	issued := time.Now()
	token, err := IssueSessionToken(testSecret, "Wednesday", "13:00", "14:30", issued)
	require.NoError(t, err)

	defer func() { jwt.TimeFunc = time.Now }()

	// masih di dalam window 2 jam
	jwt.TimeFunc = func() time.Time { return issued.Add(AttendanceTokenTTL - time.Minute) }
	_, err = ParseSessionToken(testSecret, token)
	require.NoError(t, err)

	// lewat window → ditolak
	jwt.TimeFunc = func() time.Time { return issued.Add(AttendanceTokenTTL + time.Minute) }
	_, err = ParseSessionToken(testSecret, token)
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestParseSessionTokenRejectsWrongKind(t *testing.T) {
	// token valid (signature + expiry benar) tapi bukan token absensi
	claims := AttendanceClaims{
		Kind:      "quiz",
		Day:       "Friday",
		StartTime: "10:00",
		EndTime:   "11:00",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseSessionToken(testSecret, token)
	require.ErrorIs(t, err, ErrWrongTokenType)
}

func TestParseSessionTokenRejectsGarbage(t *testing.T) {
	_, err := ParseSessionToken(testSecret, "bukan.jwt.sama-sekali")
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestValidateSchedule(t *testing.T) {
	require.NoError(t, ValidateSchedule("Monday", "07:30", "09:00"))
	require.NoError(t, ValidateSchedule("Sunday", "00:00", "23:59"))

	require.ErrorIs(t, ValidateSchedule("Senin", "07:30", "09:00"), ErrInvalidSchedule)
	require.ErrorIs(t, ValidateSchedule("monday", "07:30", "09:00"), ErrInvalidSchedule)
	require.ErrorIs(t, ValidateSchedule("Monday", "7:30", "09:00"), ErrInvalidSchedule)
	require.ErrorIs(t, ValidateSchedule("Monday", "07:30", "24:00"), ErrInvalidSchedule)
	require.ErrorIs(t, ValidateSchedule("Monday", "07:60", "09:00"), ErrInvalidSchedule)
}

func TestIssueSessionTokenFailsClosedOnEmptySecret(t *testing.T) {
	_, err := IssueSessionToken("", "Monday", "07:00", "08:00", time.Now())
	require.Error(t, err)
}

func TestRenderTokenQR(t *testing.T) {
	token, err := IssueSessionToken(testSecret, "Thursday", "08:00", "09:30", time.Now())
	require.NoError(t, err)

	png, err := RenderTokenQR(token, 0)
	require.NoError(t, err)
	// PNG magic bytes
	require.True(t, len(png) > 8)
	require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
