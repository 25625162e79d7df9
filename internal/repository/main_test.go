package repository

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"jotter/internal/database"
	"jotter/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	// Set environment to test
	os.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to open in-memory test database: %v", err)
	}
	// A single connection keeps every session on the same in-memory DB.
	if sqlDB, derr := db.DB(); derr == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(database.AllModels()...); err != nil {
		log.Fatalf("failed to migrate test database: %v", err)
	}
	testDB = db

	os.Exit(m.Run())
}

// newTestUser persists a user with unique identity fields.
func newTestUser(t *testing.T, prefix string) *models.User {
	t.Helper()
	ts := time.Now().UnixNano()
	user := &models.User{
		Username: fmt.Sprintf("%s_%d", prefix, ts),
		Email:    fmt.Sprintf("%s_%d@example.com", prefix, ts),
		Password: "hashed",
	}
	if err := testDB.Create(user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

// newTestJot persists a jot owned by the given user.
func newTestJot(t *testing.T, owner *models.User) *models.Jot {
	t.Helper()
	jot := &models.Jot{Content: "test jot", UserID: owner.ID}
	if err := testDB.Create(jot).Error; err != nil {
		t.Fatalf("create test jot: %v", err)
	}
	return jot
}
