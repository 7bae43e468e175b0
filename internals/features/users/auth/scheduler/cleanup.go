package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	sessionRepo "sekolahku_backend/internals/features/users/sessions/repository"
)

// StartSessionCleanupScheduler menghapus baris sesi device yang lebih tua
// dari masa retensi (default 30 hari), aktif maupun tidak. Ini pengganti
// TTL index di document store: record lama hilang sendiri, is_active tidak
// dilihat sama sekali.
func StartSessionCleanupScheduler(db *gorm.DB) {
	go func() {
		retentionDays := 30
		if val := os.Getenv("SESSION_RETENTION_DAYS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
				retentionDays = parsed
			}
		}

		store := sessionRepo.NewGormSessionStore(db)

		for {
			log.Println("[CLEANUP] Menjalankan pembersihan user_device_sessions...")

			cutoff := time.Now().UTC().Add(-time.Duration(retentionDays) * 24 * time.Hour)
			n, err := store.DeleteCreatedBefore(context.Background(), cutoff)
			if err != nil {
				log.Printf("[CLEANUP ERROR] Gagal hapus sesi lama: %v", err)
			} else if n > 0 {
				log.Printf("[CLEANUP] %d sesi lebih tua dari %d hari dihapus", n, retentionDays)
			} else {
				log.Println("[CLEANUP] Tidak ada sesi yang memenuhi syarat dihapus")
			}

			// Jalankan tiap 24 jam
			time.Sleep(24 * time.Hour)
		}
	}()
}
