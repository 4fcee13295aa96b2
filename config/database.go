package config

import (
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	dsn := os.Getenv("DB_URL")

	// TranslateError maps unique violations to gorm.ErrDuplicatedKey, which
	// booking admission relies on for slot conflicts.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		panic("Failed to connect database")
	}

	DB = db
}

// MigrateIndexes adds what AutoMigrate cannot express: the partial unique
// index that makes a (date, time) slot exclusive among non-cancelled
// appointments. Two concurrent bookings for the same slot race on this
// index, not on the advisory availability read.
func MigrateIndexes() {
	DB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_slot
		ON appointments (date, time)
		WHERE status <> 'cancelled' AND deleted_at IS NULL
	`)
}
