package controller

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceService "sekolahku_backend/internals/features/school/attendance/service"
	"sekolahku_backend/internals/configs"
	helper "sekolahku_backend/internals/helpers"
)

// TeacherAttendanceController menerbitkan token QR untuk satu occurrence
// sesi terjadwal. Issuance stateless: tidak ada tulis DB sama sekali.
type TeacherAttendanceController struct{}

func NewTeacherAttendanceController(db *gorm.DB) *TeacherAttendanceController {
	_ = db // issuance tidak butuh DB; signature disamakan dengan controller lain
	return &TeacherAttendanceController{}
}

/* ===================== ISSUE QR TOKEN ===================== */
// GET /api/t/attendance/qr-token?day=Tuesday&start=09:00&end=10:30[&format=png&size=256]
func (ctrl *TeacherAttendanceController) IssueQRToken(c *fiber.Ctx) error {
	day := strings.TrimSpace(c.Query("day"))
	start := strings.TrimSpace(c.Query("start"))
	end := strings.TrimSpace(c.Query("end"))

	if day == "" || start == "" || end == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Parameter day, start, dan end wajib diisi")
	}

	token, err := attendanceService.IssueSessionToken(configs.JWTSecret, day, start, end, time.Now())
	if err != nil {
		if errors.Is(err, attendanceService.ErrInvalidSchedule) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Format day/start/end tidak valid (contoh: Tuesday, 09:00, 10:30)")
		}
		log.Printf("[ERROR] issue attendance token: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menerbitkan token absensi")
	}

	// format=png → langsung render QR, siap ditampilkan di proyektor
	if strings.EqualFold(c.Query("format"), "png") {
		size, _ := strconv.Atoi(c.Query("size", "256"))
		png, err := attendanceService.RenderTokenQR(token, size)
		if err != nil {
			log.Printf("[ERROR] render QR: %v", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat QR code")
		}
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(png)
	}

	return helper.JsonOK(c, "Token absensi diterbitkan", fiber.Map{"token": token})
}
