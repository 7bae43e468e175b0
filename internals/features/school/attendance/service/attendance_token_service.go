package service

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	qrcode "github.com/skip2/go-qrcode"
)

// Token absensi = capability token: struct kecil bertanda tangan dengan
// expiry, tanpa registry server-side. Issuance tidak menulis apa-apa;
// beban idempotensi sepenuhnya di upsert saat check-in.
const (
	AttendanceTokenKind = "attendance"
	AttendanceTokenTTL  = 2 * time.Hour
)

var (
	ErrInvalidOrExpiredToken = errors.New("token absensi tidak valid atau kedaluwarsa")
	ErrWrongTokenType        = errors.New("token bukan token absensi")
	ErrInvalidSchedule       = errors.New("day/start/end tidak valid")
)

var (
	validDays = map[string]struct{}{
		"Monday": {}, "Tuesday": {}, "Wednesday": {}, "Thursday": {},
		"Friday": {}, "Saturday": {}, "Sunday": {},
	}
	timeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// AttendanceClaims adalah payload token QR.
type AttendanceClaims struct {
	Kind      string `json:"kind"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	jwt.RegisteredClaims
}

// ValidateSchedule memastikan descriptor occurrence masuk akal sebelum
// ditandatangani (nama hari + format HH:MM).
func ValidateSchedule(day, startTime, endTime string) error {
	if _, ok := validDays[day]; !ok {
		return ErrInvalidSchedule
	}
	if !timeRe.MatchString(startTime) || !timeRe.MatchString(endTime) {
		return ErrInvalidSchedule
	}
	return nil
}

// IssueSessionToken menandatangani token absensi untuk satu occurrence.
// Berlaku 2 jam sejak diterbitkan.
func IssueSessionToken(secret, day, startTime, endTime string, now time.Time) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", errors.New("JWT secret kosong")
	}
	if err := ValidateSchedule(day, startTime, endTime); err != nil {
		return "", err
	}

	claims := AttendanceClaims{
		Kind:      AttendanceTokenKind,
		Day:       day,
		StartTime: startTime,
		EndTime:   endTime,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AttendanceTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseSessionToken memverifikasi signature + expiry lalu mengecek kind.
// Signature/expiry gagal → ErrInvalidOrExpiredToken (400, bukan 401 —
// retry dengan kredensial lain tidak akan menolong).
func ParseSessionToken(secret, tokenString string) (*AttendanceClaims, error) {
	claims := &AttendanceClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidOrExpiredToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidOrExpiredToken
	}
	if claims.Kind != AttendanceTokenKind {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// RenderTokenQR merender token jadi PNG QR (untuk ditampilkan guru di kelas).
func RenderTokenQR(token string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(token, qrcode.Medium, size)
}
