package service

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	authHelper "sekolahku_backend/internals/features/users/auth/helper"
	authRepo "sekolahku_backend/internals/features/users/auth/repository"
	sessionModel "sekolahku_backend/internals/features/users/sessions/model"
	sessionRepo "sekolahku_backend/internals/features/users/sessions/repository"
	sessionService "sekolahku_backend/internals/features/users/sessions/service"
	userModel "sekolahku_backend/internals/features/users/user/model"
	helpers "sekolahku_backend/internals/helpers"
)

/* ==========================
   Const & small helpers
========================== */

const accessTTLDefault = 24 * time.Hour

func nowUTC() time.Time { return time.Now().UTC() }

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET belum diset")
	}
	return secret, nil
}

func strptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// locationJSON membaca header X-Device-Location (opsional, JSON bebas dari
// client). Bukan data otoritatif — murni deskriptif untuk halaman "sesi saya".
func locationJSON(c *fiber.Ctx) datatypes.JSON {
	raw := strings.TrimSpace(c.Get("X-Device-Location"))
	if raw == "" {
		return nil
	}
	if json.Valid([]byte(raw)) {
		return datatypes.JSON(raw)
	}
	b, err := json.Marshal(fiber.Map{"name": raw})
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func buildAccessClaims(u userModel.UserModel, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":       u.ID.String(),
		"user_name": u.UserName,
		"role":      u.Role,
		"iat":       now.Unix(),
		"exp":       now.Add(accessTTLDefault).Unix(),
		// jti: iat/exp resolusinya detik — tanpa ini dua login dalam detik
		// yang sama menghasilkan token (dan token_hash) identik, dan insert
		// sesi kedua nabrak unique index uq_device_sessions_token
		"jti": uuid.NewString(),
	}
}

/* ==========================
   REGISTER
========================== */

func Register(db *gorm.DB, c *fiber.Ctx) error {
	var input userModel.UserModel
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := authHelper.ValidateRegisterInput(input.UserName, input.Email, input.Password); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	// Role tidak boleh dipilih sendiri lewat register publik
	input.Role = "student"
	if err := input.Validate(); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	passwordHash, err := authHelper.HashPassword(input.Password)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Password hashing failed")
	}
	input.Password = passwordHash
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := authRepo.CreateUser(db, &input); err != nil {
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "duplicate key") || strings.Contains(low, "unique") {
			return helpers.JsonError(c, fiber.StatusBadRequest, "Email already registered")
		}
		log.Printf("[register] create user: %v", err)
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	return helpers.JsonCreated(c, "Registration successful", nil)
}

/* ==========================
   LOGIN (username/email + password)
========================== */

func Login(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(input.Identifier) == "" || input.Password == "" {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Identifier dan password wajib diisi")
	}

	user, err := authRepo.FindUserByEmailOrUsername(db, strings.ToLower(strings.TrimSpace(input.Identifier)))
	if err != nil {
		// Jangan bedakan "tidak ada" vs "password salah"
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Identifier atau password salah")
	}
	if !authHelper.CheckPassword(user.Password, input.Password) {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Identifier atau password salah")
	}
	if !user.IsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan")
	}

	return issueSessionAndRespond(db, c, user)
}

/* ==========================
   LOGIN (Google ID token)
========================== */

func LoginGoogle(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		IDToken string `json:"id_token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(input.IDToken) == "" {
		return helpers.JsonError(c, fiber.StatusBadRequest, "id_token wajib diisi")
	}
	if configs.GoogleClientID == "" {
		return helpers.JsonError(c, fiber.StatusServiceUnavailable, "Login Google tidak dikonfigurasi")
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(input.IDToken, []string{configs.GoogleClientID}); err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "ID token Google tidak valid")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(input.IDToken)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "ID token Google tidak valid")
	}

	user, err := authRepo.FindUserByGoogleID(db, claimSet.Sub)
	if err != nil {
		// fallback: akun lama yang daftarnya pakai email/password
		user, err = authRepo.FindUserByEmail(db, strings.ToLower(claimSet.Email))
		if err != nil {
			return helpers.JsonError(c, fiber.StatusNotFound, "Akun belum terdaftar")
		}
		if user.GoogleID == nil {
			if uerr := db.Model(user).Update("google_id", claimSet.Sub).Error; uerr != nil {
				log.Printf("[login-google] link google_id: %v", uerr)
			}
		}
	}
	if !user.IsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan")
	}

	return issueSessionAndRespond(db, c, user)
}

/* ==========================
   Sesi device: evict → sign → create
========================== */

func issueSessionAndRespond(db *gorm.DB, c *fiber.Ctx, user *userModel.UserModel) error {
	secret, err := getJWTSecret()
	if err != nil {
		return helpers.FromFiberError(c, err)
	}
	now := nowUTC()

	store := sessionRepo.NewGormSessionStore(db)
	svc := sessionService.NewDeviceSessionService(store)

	// Batas sesi per role dicek SEBELUM sesi baru dibuat. Evict & create
	// adalah dua operasi terpisah (bukan transaksi) — lihat catatan service.
	maxSessions := svc.MaxSessionsFor(user.Role)
	evicted, err := svc.EnforceLimit(c.UserContext(), user.ID, maxSessions)
	if err != nil {
		log.Printf("[login] enforce session limit: %v", err)
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal menyiapkan sesi login")
	}
	if len(evicted) > 0 {
		log.Printf("[login] user=%s evicted %d sesi lama (cap=%d)", user.ID, len(evicted), maxSessions)
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildAccessClaims(*user, now)).
		SignedString([]byte(secret))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat access token")
	}

	sess := &sessionModel.DeviceSessionModel{
		UserID:       user.ID,
		TokenHash:    sessionModel.ComputeTokenHash(accessToken, secret),
		DeviceID:     strptr(c.Get("X-Device-ID")),
		DeviceName:   strptr(c.Get("X-Device-Name")),
		UserAgent:    strptr(c.Get("User-Agent")),
		IPAddress:    strptr(c.IP()),
		Location:     locationJSON(c),
		IsActive:     true,
		LastActivity: now,
	}
	if err := store.Create(c.UserContext(), sess); err != nil {
		log.Printf("[login] create session: %v", err)
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat sesi login")
	}

	return helpers.JsonOK(c, "Login berhasil", fiber.Map{
		"access_token": accessToken,
		"user": fiber.Map{
			"id":        user.ID,
			"user_name": user.UserName,
			"email":     user.Email,
			"role":      user.Role,
		},
		"evicted_sessions": len(evicted),
	})
}

/* ==========================
   LOGOUT
========================== */

func Logout(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helpers.GetUserIDFromToken(c)
	if err != nil {
		return helpers.FromFiberError(c, err)
	}
	secret, err := getJWTSecret()
	if err != nil {
		return helpers.FromFiberError(c, err)
	}

	authHeader := c.Get("Authorization")
	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if tokenString == "" {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Token tidak ditemukan")
	}

	store := sessionRepo.NewGormSessionStore(db)
	ok, err := store.DeactivateByTokenHash(c.UserContext(), userID, sessionModel.ComputeTokenHash(tokenString, secret))
	if err != nil {
		log.Printf("[logout] deactivate session: %v", err)
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal logout")
	}
	if !ok {
		return helpers.JsonError(c, fiber.StatusNotFound, "Sesi tidak ditemukan")
	}

	return helpers.JsonOK(c, "Logout berhasil", nil)
}

// LogoutAll: "log out everywhere" — semua sesi aktif dimatikan, termasuk
// sesi yang sedang dipakai.
func LogoutAll(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helpers.GetUserIDFromToken(c)
	if err != nil {
		return helpers.FromFiberError(c, err)
	}

	svc := sessionService.NewDeviceSessionService(sessionRepo.NewGormSessionStore(db))
	n, err := svc.DeactivateAll(c.UserContext(), userID, nil)
	if err != nil {
		log.Printf("[logout-all] deactivate: %v", err)
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal logout dari semua device")
	}

	return helpers.JsonOK(c, "Logout dari semua device berhasil", fiber.Map{"deactivated": n})
}
