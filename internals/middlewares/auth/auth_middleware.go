// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	sessionModel "sekolahku_backend/internals/features/users/sessions/model"
	sessionRepo "sekolahku_backend/internals/features/users/sessions/repository"
	sessionService "sekolahku_backend/internals/features/users/sessions/service"
)

func AuthMiddleware(db *gorm.DB) fiber.Handler {
	store := sessionRepo.NewGormSessionStore(db)
	svc := sessionService.NewDeviceSessionService(store)

	return func(c *fiber.Ctx) error {
		// 1) Ambil Authorization (atau cookie)
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		// 2) Parse & verifikasi JWT
		secretKey := configs.JWTSecret
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET kosong")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims, err := parseAccessToken(tokenString, secretKey)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		// 3) Validasi exp (dengan sedikit leeway untuk clock skew)
		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		// 4) Sesi device harus masih aktif. Token yang sesinya sudah
		//    ditendang (login device baru / force logout admin) mati di sini.
		sess, err := store.FindActiveByTokenHash(
			c.UserContext(),
			sessionModel.ComputeTokenHash(tokenString, secretKey),
		)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Sesi sudah tidak aktif")
			}
			log.Println("[ERROR] DB error saat cek sesi:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}

		// 5) Ambil user_id & validasi user aktif
		userID, err := extractUserID(claims)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}

		if err := ensureUserActive(db, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - User not found")
			}
			return fiber.NewError(fiber.StatusForbidden, "Akun Anda telah dinonaktifkan")
		}

		// 6) Refresh last_activity (best-effort, jangan gagalkan request)
		if err := svc.Touch(c.UserContext(), sess.ID); err != nil {
			log.Printf("[WARN] touch session activity: %v", err)
		}

		// 7) Simpan info klaim ke context
		c.Locals("user_id", userID.String())
		c.Locals("session_id", sess.ID.String())
		storeBasicClaimsToLocals(c, claims)

		return c.Next()
	}
}
