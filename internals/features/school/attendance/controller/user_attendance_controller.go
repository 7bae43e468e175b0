package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	"sekolahku_backend/internals/features/school/attendance/dto"
	attendanceRepo "sekolahku_backend/internals/features/school/attendance/repository"
	attendanceService "sekolahku_backend/internals/features/school/attendance/service"
	helper "sekolahku_backend/internals/helpers"
)

type UserAttendanceController struct {
	Store   *attendanceRepo.GormAttendanceStore
	CheckIn *attendanceService.CheckInService
	V       *validator.Validate
}

func NewUserAttendanceController(db *gorm.DB) *UserAttendanceController {
	store := attendanceRepo.NewGormAttendanceStore(db)
	return &UserAttendanceController{
		Store:   store,
		CheckIn: attendanceService.NewCheckInService(store, configs.JWTSecret),
		V:       validator.New(),
	}
}

/* ===================== CHECK-IN ===================== */
// POST /api/u/attendance/check-in  body: {"token": "..."}
func (ctrl *UserAttendanceController) CheckInWithToken(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.V.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	rec, created, err := ctrl.CheckIn.CheckIn(c.UserContext(), req.Token, userID)
	if err != nil {
		switch {
		case errors.Is(err, attendanceService.ErrMissingToken):
			return helper.JsonError(c, fiber.StatusBadRequest, "Token wajib diisi")
		case errors.Is(err, attendanceService.ErrInvalidOrExpiredToken):
			return helper.JsonError(c, fiber.StatusBadRequest, "Token absensi tidak valid atau kedaluwarsa")
		case errors.Is(err, attendanceService.ErrWrongTokenType):
			return helper.JsonError(c, fiber.StatusBadRequest, "Token bukan token absensi")
		default:
			log.Printf("[ERROR] attendance check-in: %v", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mencatat kehadiran")
		}
	}

	if !created {
		// Idempotent repeat: sudah tercatat, tetap sukses tanpa record baru
		return helper.JsonOK(c, "Attendance already marked for this session.", nil)
	}

	return helper.JsonCreated(c, "Kehadiran tercatat", fiber.Map{
		"attendance": dto.FromAttendanceRecordModel(*rec),
	})
}

/* ===================== MY ATTENDANCE ===================== */
// GET /api/u/attendance
func (ctrl *UserAttendanceController) ListMyAttendance(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	p := helper.ResolvePaging(c, 20, 100)
	records, total, err := ctrl.Store.ListByUser(c.UserContext(), userID, p.Offset, p.Limit)
	if err != nil {
		log.Printf("[ERROR] list attendance: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil riwayat kehadiran")
	}

	return helper.JsonOK(c, "Riwayat kehadiran", fiber.Map{
		"attendance": dto.FromAttendanceRecordModels(records),
		"pagination": helper.BuildPaginationFromPage(total, p.Page, p.PerPage),
	})
}
