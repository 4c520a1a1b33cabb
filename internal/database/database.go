package database

import (
	"log"

	"github.com/playasoft/camp-registration-api/internal/config"
	"github.com/playasoft/camp-registration-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto Migrate
	err = db.AutoMigrate(
		&models.User{},
		&models.JobCategory{},
		&models.CampingOption{},
		&models.Shift{},
		&models.Job{},
		&models.CustomField{},
		&models.Registration{},
		&models.RegistrationFieldValue{},
		&models.Payment{},
		&models.APIKey{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}
