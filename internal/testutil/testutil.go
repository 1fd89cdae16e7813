package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/asset-vault-api/internal/api"
	"github.com/dom/asset-vault-api/internal/config"
	"github.com/dom/asset-vault-api/internal/logging"
	"github.com/dom/asset-vault-api/internal/repository"
	repoPostgres "github.com/dom/asset-vault-api/internal/repository/postgres"
	"github.com/dom/asset-vault-api/internal/service"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB wraps an in-memory sqlite database carrying the full schema. It is
// fast and hermetic; the postgres-specific behavior is covered separately by
// the integration tests gated on TEST_DATABASE_URL.
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB opens a fresh in-memory database and applies the migrations.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	// Each sqlite connection gets its own :memory: database, so the pool
	// must stay on a single connection for every query to see the same one.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := repoPostgres.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return &TestDB{DB: db}
}

// Truncate clears all tables for test isolation.
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"assets",
		"session_tokens",
		"users",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec("DELETE FROM " + table).Error; err != nil {
			t.Logf("warning: failed to clear %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing.
func TestConfig() *config.Config {
	return &config.Config{
		Port:        "0", // Random port
		Environment: "test",
		DatabaseURL: "sqlite::memory:",
		LogLevel:    "error",
		AdminEmails: []string{"admin@example.com"},
	}
}

// TestServer holds all components for integration testing.
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Repos    *repository.Repositories
	Services *service.Services
	Config   *config.Config
}

// NewTestServer creates a complete test server with all dependencies.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()

	repos := repoPostgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos)
	router := api.NewRouter(services, repos, cfg, logging.New(cfg.LogLevel))

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Repos:    repos,
		Services: services,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL.
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// URL returns the full URL for a given path.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
