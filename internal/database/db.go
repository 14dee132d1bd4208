package database

import (
	"log"
	"os"
	"time"

	"github.com/dzyusuf20/voting-appAPI/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dsn string) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		// TranslateError so unique-constraint violations surface as
		// gorm.ErrDuplicatedKey; the vote handler depends on that.
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			log.Println("connected to DB successfully")
			break
		}

		log.Printf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatalf("failed to connect to db after %d attempts: %v", maxAttempts, err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Kandidat{},
		&models.Vote{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	createBootstrapAdmin()
}

// optional first admin from env, useful for fresh deployments without
// going through /register-admin/
func createBootstrapAdmin() {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return
	}

	var count int64
	if err := DB.Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		log.Printf("failed to check bootstrap admin: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash bootstrap admin password: %v", err)
		return
	}

	admin := models.NewAdmin(username, string(hash))
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("failed to create bootstrap admin: %v", err)
		return
	}

	log.Printf("created bootstrap admin: %s", username)
}
