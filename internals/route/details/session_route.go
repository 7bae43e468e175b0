// file: internals/route/details/session_route.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "sekolahku_backend/internals/features/users/sessions/controller"
)

// UserSessionRoutes: self-service sesi device. Base: /api/u
func UserSessionRoutes(group fiber.Router, db *gorm.DB) {
	ctrl := controller.NewUserDeviceSessionController(db)

	group.Get("/sessions", ctrl.ListMySessions)
	group.Get("/sessions/stats", ctrl.MySessionStats)
	group.Delete("/sessions/:id", ctrl.DeactivateSession)
	group.Delete("/sessions", ctrl.DeactivateOtherSessions)
}

// AdminSessionRoutes: monitoring & force logout. Base: /api/a
func AdminSessionRoutes(group fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAdminDeviceSessionController(db)

	group.Get("/sessions", ctrl.ListAllSessions)
	group.Get("/sessions/:user_id", ctrl.ListUserSessions)
	group.Delete("/sessions/:user_id/:session_id", ctrl.ForceDeactivateSession)
	group.Delete("/sessions/:user_id", ctrl.ForceDeactivateAll)
}
