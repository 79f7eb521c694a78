package core

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/kumoreader/kumo-go/internal/config"
	"github.com/kumoreader/kumo-go/internal/db"
	"github.com/kumoreader/kumo-go/internal/jobs"
	"github.com/kumoreader/kumo-go/internal/store"
	"github.com/kumoreader/kumo-go/internal/websocket"
)

// App holds the core components of the application shared between the
// daemon and tests.
type App struct {
	config     *config.Config
	db         *sql.DB
	wsHub      *websocket.Hub
	jobManager *jobs.JobManager
	version    string
}

// New sets up and returns a new App instance. It handles loading the
// configuration, initializing the database connection, running migrations
// and seeding the config rows.
func New(version string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.RunMigrations(database); err != nil {
		// We can't proceed without a valid database schema.
		// Close the DB connection before failing.
		database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	if err := store.New(database).InitializeConfig(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to seed config rows: %w", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	app := NewApp(cfg, database, hub, jobs.NewManager(), version)
	log.Println("Core application setup complete.")
	return app, nil
}

// NewApp assembles an App from already initialized components. Tests use
// this to inject an in-memory database.
func NewApp(cfg *config.Config, database *sql.DB, hub *websocket.Hub, jm *jobs.JobManager, version string) *App {
	return &App{
		config:     cfg,
		db:         database,
		wsHub:      hub,
		jobManager: jm,
		version:    version,
	}
}

func (a *App) Config() *config.Config       { return a.config }
func (a *App) DB() *sql.DB                  { return a.db }
func (a *App) WsHub() *websocket.Hub        { return a.wsHub }
func (a *App) JobManager() *jobs.JobManager { return a.jobManager }
func (a *App) Version() string              { return a.version }

// Close gracefully closes the application's resources, like the DB connection.
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
