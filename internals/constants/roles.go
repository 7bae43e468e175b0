package constants

import "fmt"

// Daftar role yang dikenal sistem
const (
	RoleStudent = "student"
	RoleParent  = "parent"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
	RoleOwner   = "owner"
)

// Template pesan error role
const (
	ErrOnlyTeachersCanAccess = "❌ Hanya teacher, admin, atau owner yang boleh mengakses fitur %s."
	ErrOnlyAdminsCanAccess   = "❌ Hanya admin yang boleh mengakses fitur %s."
)

func RoleErrorTeacher(feature string) string {
	return fmt.Sprintf(ErrOnlyTeachersCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleStudent,
		RoleParent,
		RoleTeacher,
		RoleAdmin,
		RoleOwner,
	}

	StaffRoles = []string{
		RoleTeacher,
		RoleAdmin,
		RoleOwner,
	}

	AdminAndAbove = []string{
		RoleAdmin,
		RoleOwner,
	}
)

// ==========================
// ✅ Batas sesi aktif per role
// ==========================
//
// Staff boleh login di banyak perangkat sekaligus (batas besar tapi finite,
// bukan sentinel 999). Role lain hanya satu perangkat: login di device baru
// otomatis menendang sesi device lama.
const StaffSessionCap = 100

var MaxActiveSessions = map[string]int{
	RoleOwner:   StaffSessionCap,
	RoleAdmin:   StaffSessionCap,
	RoleTeacher: StaffSessionCap,
	RoleStudent: 1,
	RoleParent:  1,
}

// SessionCapForRole mengembalikan batas sesi untuk sebuah role.
// Role tak dikenal diperlakukan seperti non-staff (1 sesi).
func SessionCapForRole(role string) int {
	if cap, ok := MaxActiveSessions[role]; ok {
		return cap
	}
	return 1
}
