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

// AdminDeviceSessionController: monitoring & force-logout oleh admin/owner.
type AdminDeviceSessionController struct {
	Store   *sessionRepo.GormSessionStore
	Service *sessionService.DeviceSessionService
}

func NewAdminDeviceSessionController(db *gorm.DB) *AdminDeviceSessionController {
	store := sessionRepo.NewGormSessionStore(db)
	return &AdminDeviceSessionController{
		Store:   store,
		Service: sessionService.NewDeviceSessionService(store),
	}
}

/* ===================== LIST ALL (aggregate per user) ===================== */
// GET /api/a/sessions
func (ctrl *AdminDeviceSessionController) ListAllSessions(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	rows, total, err := ctrl.Store.AggregateByUser(c.UserContext(), p.Offset, p.Limit)
	if err != nil {
		log.Printf("[ERROR] aggregate sessions: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data sesi")
	}

	return helper.JsonOK(c, "Sesi aktif per user", fiber.Map{
		"users":      rows,
		"pagination": helper.BuildPaginationFromPage(total, p.Page, p.PerPage),
	})
}

/* ===================== LIST PER USER ===================== */
// GET /api/a/sessions/:user_id
func (ctrl *AdminDeviceSessionController) ListUserSessions(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "User ID tidak valid")
	}

	sessions, err := ctrl.Service.ListActive(c.UserContext(), userID)
	if err != nil {
		log.Printf("[ERROR] list user sessions: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil sesi user")
	}

	return helper.JsonOK(c, "Sesi aktif user", fiber.Map{
		"sessions": dto.FromDeviceSessionModels(sessions, uuid.Nil),
	})
}

/* ===================== FORCE DEACTIVATE ONE ===================== */
// DELETE /api/a/sessions/:user_id/:session_id
func (ctrl *AdminDeviceSessionController) ForceDeactivateSession(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "User ID tidak valid")
	}
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Session ID tidak valid")
	}

	ok, err := ctrl.Service.Deactivate(c.UserContext(), sessionID, userID)
	if err != nil {
		log.Printf("[ERROR] force deactivate: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menonaktifkan sesi")
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Sesi tidak ditemukan")
	}

	return helper.JsonOK(c, "Sesi user dinonaktifkan", nil)
}

/* ===================== FORCE DEACTIVATE ALL ===================== */
// DELETE /api/a/sessions/:user_id
func (ctrl *AdminDeviceSessionController) ForceDeactivateAll(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "User ID tidak valid")
	}

	n, err := ctrl.Service.DeactivateAll(c.UserContext(), userID, nil)
	if err != nil {
		log.Printf("[ERROR] force deactivate all: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menonaktifkan sesi user")
	}

	return helper.JsonOK(c, "Semua sesi user dinonaktifkan", fiber.Map{"deactivated": n})
}
