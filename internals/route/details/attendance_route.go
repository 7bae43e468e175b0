// file: internals/route/details/attendance_route.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "sekolahku_backend/internals/features/school/attendance/controller"
)

// UserAttendanceRoutes: check-in + riwayat. Base: /api/u
func UserAttendanceRoutes(group fiber.Router, db *gorm.DB) {
	ctrl := controller.NewUserAttendanceController(db)

	group.Post("/attendance/check-in", ctrl.CheckInWithToken)
	group.Get("/attendance", ctrl.ListMyAttendance)
}

// TeacherAttendanceRoutes: penerbitan token QR. Base: /api/t
func TeacherAttendanceRoutes(group fiber.Router, db *gorm.DB) {
	ctrl := controller.NewTeacherAttendanceController(db)

	group.Get("/attendance/qr-token", ctrl.IssueQRToken)
}
