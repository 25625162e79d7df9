package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"jotter/internal/config"
	"jotter/internal/database"
	"jotter/internal/media"
	"jotter/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testServer *Server
	testApp    *fiber.App
)

// memStore satisfies media.Store without touching disk.
type memStore struct{}

func (memStore) Upload(_ context.Context, _ []byte, _ string, folder string) (*media.Asset, error) {
	name := fmt.Sprintf("%s/%d.webp", folder, time.Now().UnixNano())
	return &media.Asset{URL: "/uploads/" + name, PublicID: name}, nil
}

func (memStore) Delete(context.Context, string) error { return nil }

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open("file:serverdb?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("unwrap test db: %v", err)
	}
	// A single connection keeps every session on the same in-memory DB.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(database.AllModels()...); err != nil {
		log.Fatalf("migrate test db: %v", err)
	}

	cfg := &config.Config{
		Env:                  "test",
		JWTSecret:            "server-test-secret-0123456789abcdef",
		Port:                 "0",
		MediaBaseURL:         "/uploads",
		MediaMaxUploadSizeMB: 10,
	}

	testServer, err = NewServerWithDeps(cfg, db, nil, memStore{})
	if err != nil {
		log.Fatalf("build test server: %v", err)
	}

	testApp = fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, err, false)
		},
	})
	testServer.SetupRoutes(testApp)

	os.Exit(m.Run())
}

// doJSON performs a request against the shared app and decodes the JSON body.
func doJSON(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := testApp.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil && err != io.EOF {
		t.Fatalf("%s %s: decode response: %v", method, path, err)
	}
	return resp.StatusCode, payload
}

// registerUser creates an account through the API and returns its token and ID.
func registerUser(t *testing.T, prefix string) (string, uint) {
	t.Helper()

	suffix := time.Now().UnixNano()
	status, payload := doJSON(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": fmt.Sprintf("%s%d", prefix, suffix%1_000_000_000),
		"email":    fmt.Sprintf("%s%d@example.com", prefix, suffix),
		"password": "password123",
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: status %d, payload %v", prefix, status, payload)
	}

	data := payload["data"].(map[string]any)
	token := data["token"].(string)
	user := data["user"].(map[string]any)
	return token, uint(user["id"].(float64))
}
