package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	localCache "github.com/snapit-app/server/pkg/internal/cache"
	"github.com/snapit-app/server/pkg/internal/conf"
	"github.com/snapit-app/server/pkg/internal/database"
	"github.com/snapit-app/server/pkg/internal/storage"
)

func newTestServer(t *testing.T) (*fiber.App, *conf.Config) {
	t.Helper()

	if err := localCache.NewStore(); err != nil {
		t.Fatalf("cache store: %v", err)
	}

	source, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := database.RunMigration(source); err != nil {
		t.Fatalf("run migration: %v", err)
	}
	database.C = source
	storage.C = nullDriver{}

	cfg := &conf.Config{
		Security: conf.Security{SigningSecret: "unit-test-secret"},
		Storage:  conf.Storage{Folder: "snapit-test"},
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		JSONEncoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
	})
	MapAPIs(app, cfg)

	return app, cfg
}

// nullDriver satisfies the storage driver for handlers under test without
// touching a real bucket.
type nullDriver struct{}

func (v nullDriver) Upload(_ context.Context, _ io.Reader, _ int64, _, folder string) (storage.Artifact, error) {
	id := fmt.Sprintf("%s/%s", folder, uuid.New().String())
	return storage.Artifact{ID: id, URL: "http://storage.local/" + id}, nil
}

func (v nullDriver) Release(_ context.Context, _ string) error {
	return nil
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	request := newRequest(method, target, body)
	if payload != nil {
		request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return request
}

func newRequest(method, target string, body io.Reader) *http.Request {
	request, _ := http.NewRequest(method, target, body)
	return request
}

func decodeBody(t *testing.T, response *http.Response) map[string]any {
	t.Helper()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
	return out
}

// registerUser registers over the wire and hands back the issued token.
func registerUser(t *testing.T, app *fiber.App, name, email string) string {
	t.Helper()

	response, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/user/register", fiber.Map{
		"name":             name,
		"email":            email,
		"password":         "Secret123",
		"confirm_password": "Secret123",
	}), -1)
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want %d", response.StatusCode, http.StatusCreated)
	}

	token, _ := decodeBody(t, response)["token"].(string)
	if len(token) == 0 {
		t.Fatal("register response carries no token")
	}
	return token
}
