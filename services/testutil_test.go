package services

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campus-connect-server/config"
	"campus-connect-server/database"
)

// setupTestDB points the global handle at an isolated in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	database.DB = db
	return db
}

// fakePushProvider records every request the dispatcher submits.
type fakePushProvider struct {
	mu       sync.Mutex
	requests int
	bodies   []string
	status   int
}

func newFakePushProvider(t *testing.T, status int) *fakePushProvider {
	t.Helper()

	provider := &fakePushProvider{status: status}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		provider.mu.Lock()
		provider.requests++
		provider.bodies = append(provider.bodies, string(body))
		provider.mu.Unlock()

		w.WriteHeader(provider.status)
		w.Write([]byte(`{"data":[]}`))
	}))
	t.Cleanup(server.Close)

	config.Load()
	config.AppConfig.Push.Endpoint = server.URL
	return provider
}

func (p *fakePushProvider) requestCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests
}
