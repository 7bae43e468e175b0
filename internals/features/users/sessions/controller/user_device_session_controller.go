package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/users/sessions/dto"
	sessionRepo "sekolahku_backend/internals/features/users/sessions/repository"
	sessionService "sekolahku_backend/internals/features/users/sessions/service"
	helper "sekolahku_backend/internals/helpers"
)

type UserDeviceSessionController struct {
	Service *sessionService.DeviceSessionService
}

func NewUserDeviceSessionController(db *gorm.DB) *UserDeviceSessionController {
	return &UserDeviceSessionController{
		Service: sessionService.NewDeviceSessionService(sessionRepo.NewGormSessionStore(db)),
	}
}

/* ===================== LIST ===================== */
// GET /api/u/sessions
func (ctrl *UserDeviceSessionController) ListMySessions(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	currentID, _ := helper.GetSessionIDFromToken(c)

	sessions, err := ctrl.Service.ListActive(c.UserContext(), userID)
	if err != nil {
		log.Printf("[ERROR] list sessions: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar sesi")
	}

	return helper.JsonOK(c, "Daftar sesi aktif", fiber.Map{
		"sessions": dto.FromDeviceSessionModels(sessions, currentID),
	})
}

/* ===================== STATS ===================== */
// GET /api/u/sessions/stats
func (ctrl *UserDeviceSessionController) MySessionStats(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	role, err := helper.GetUserRoleFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	stats, err := ctrl.Service.Stats(c.UserContext(), userID, role)
	if err != nil {
		log.Printf("[ERROR] session stats: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung statistik sesi")
	}

	return helper.JsonOK(c, "Statistik sesi", fiber.Map{"stats": stats})
}

/* ===================== DEACTIVATE ONE ===================== */
// DELETE /api/u/sessions/:id
func (ctrl *UserDeviceSessionController) DeactivateSession(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Session ID tidak valid")
	}

	ok, err := ctrl.Service.Deactivate(c.UserContext(), sessionID, userID)
	if err != nil {
		log.Printf("[ERROR] deactivate session: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menonaktifkan sesi")
	}
	if !ok {
		// sesi milik user lain juga jatuh ke sini — jangan bocorkan bedanya
		return helper.JsonError(c, fiber.StatusNotFound, "Sesi tidak ditemukan")
	}

	return helper.JsonOK(c, "Sesi dinonaktifkan", nil)
}

/* ===================== DEACTIVATE ALL (kecuali sesi ini) ===================== */
// DELETE /api/u/sessions
func (ctrl *UserDeviceSessionController) DeactivateOtherSessions(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	currentID, err := helper.GetSessionIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	n, err := ctrl.Service.DeactivateAll(c.UserContext(), userID, &currentID)
	if err != nil {
		log.Printf("[ERROR] deactivate other sessions: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menonaktifkan sesi lain")
	}

	return helper.JsonOK(c, "Sesi lain dinonaktifkan", fiber.Map{"deactivated": n})
}
