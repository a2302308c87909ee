package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	localCache "github.com/snapit-app/server/pkg/internal/cache"
	"github.com/snapit-app/server/pkg/internal/database"
	"github.com/snapit-app/server/pkg/internal/storage"
)

func useTestDatabase(t *testing.T) {
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
}

// artifactRecorder stands in for the object storage driver and records every
// release call.
type artifactRecorder struct {
	mu       sync.Mutex
	uploads  int
	released []string
	failOn   map[string]bool
}

func useRecordingStorage(t *testing.T) *artifactRecorder {
	t.Helper()
	recorder := &artifactRecorder{failOn: map[string]bool{}}
	storage.C = recorder
	return recorder
}

func (v *artifactRecorder) Upload(_ context.Context, _ io.Reader, _ int64, _, folder string) (storage.Artifact, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.uploads++
	id := fmt.Sprintf("%s/object-%d", folder, v.uploads)
	return storage.Artifact{ID: id, URL: "http://storage.local/" + id}, nil
}

func (v *artifactRecorder) Release(_ context.Context, artifactID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.released = append(v.released, artifactID)
	if v.failOn[artifactID] {
		return fmt.Errorf("simulated release failure for %s", artifactID)
	}
	return nil
}

func (v *artifactRecorder) releasedIdx() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string{}, v.released...)
}

func uploadArtifacts(t *testing.T, recorder *artifactRecorder, count int) []storage.Artifact {
	t.Helper()
	artifacts := make([]storage.Artifact, 0, count)
	for idx := 0; idx < count; idx++ {
		artifact, err := recorder.Upload(context.Background(), nil, 0, "image/jpeg", "posts")
		if err != nil {
			t.Fatalf("upload: %v", err)
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts
}
