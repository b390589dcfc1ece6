// Package postgres implements the repository interfaces with GORM on
// PostgreSQL. It is selected with DB_DRIVER=postgres.
//
// Schema is created by AutoMigrate from the record structs in records.go.
// Foreign-key constraints are disabled at migration time: parent checks
// run inside the write transaction instead, so parent deletes never cascade
// and never fail because of dependents.
package postgres

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/sakif/blog-api/internal/repository"
)

var _ repository.Store = (*DB)(nil)

// Config describes how to reach the primary and any read replicas.
type Config struct {
	DSN         string
	ReplicaDSNs []string
	MaxOpen     int
	MaxIdle     int
}

type DB struct {
	gorm *gorm.DB

	topics   *TopicRepo
	blogs    *BlogRepo
	comments *CommentRepo
}

// New connects to PostgreSQL, registers read replicas when configured and
// migrates the schema.
func New(cfg Config, log *slog.Logger) (*DB, error) {
	gdb, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                                   newGormLogger(log),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: opening database: %w", err)
	}

	return open(gdb, cfg)
}

// open finishes setup on an already opened *gorm.DB.
func open(gdb *gorm.DB, cfg Config) (*DB, error) {
	if len(cfg.ReplicaDSNs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.ReplicaDSNs))
		for _, dsn := range cfg.ReplicaDSNs {
			replicas = append(replicas, postgres.New(postgres.Config{
				DSN:                  dsn,
				PreferSimpleProtocol: true,
			}))
		}
		// Reads go to a random replica; writes and transactions stay on
		// the primary.
		err := gdb.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("postgres: registering replicas: %w", err)
		}
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres: getting sql.DB: %w", err)
	}
	if cfg.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	}
	if cfg.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := gdb.AutoMigrate(&topicRecord{}, &blogRecord{}, &commentRecord{}); err != nil {
		return nil, fmt.Errorf("postgres: running migrations: %w", err)
	}

	return &DB{
		gorm:     gdb,
		topics:   &TopicRepo{db: gdb},
		blogs:    &BlogRepo{db: gdb},
		comments: &CommentRepo{db: gdb},
	}, nil
}

func (db *DB) Topics() repository.TopicRepository     { return db.topics }
func (db *DB) Blogs() repository.BlogRepository       { return db.blogs }
func (db *DB) Comments() repository.CommentRepository { return db.comments }

func (db *DB) Close() error {
	sqlDB, err := db.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// newGormLogger routes GORM's own logging (slow queries, errors) through
// the service logger at warn level.
func newGormLogger(log *slog.Logger) logger.Interface {
	return logger.New(
		slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
