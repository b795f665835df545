package database

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/rpupo63/portfolio-backend/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

type Database struct {
	db           *gorm.DB
	employeeRepo *EmployeeRepo
	projectRepo  *ProjectRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:           db,
		employeeRepo: NewEmployeeRepo(db),
		projectRepo:  NewProjectRepo(db),
	}
}

// Accessor methods for each repository
func (d Database) EmployeeRepo() *EmployeeRepo {
	return d.employeeRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

// Ping checks that a pooled connection can reach the database
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases every pooled connection
func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DSN builds the postgres connection string. DATABASE_URL wins; otherwise the
// discrete PG_* settings are used and PG_HOST, PG_USER and PG_DB are required.
func DSN(c map[string]string) (string, error) {
	if dsn := config.GetString(c, "DATABASE_URL", ""); dsn != "" {
		return dsn, nil
	}

	required := map[string]string{}
	for _, key := range []string{"PG_HOST", "PG_USER", "PG_DB"} {
		value := config.GetString(c, key, "")
		if value == "" {
			return "", fmt.Errorf("%s not set (and no DATABASE_URL)", key)
		}
		required[key] = value
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%s", required["PG_HOST"], config.GetString(c, "PG_PORT", "5432")),
		Path:   "/" + required["PG_DB"],
	}
	if pass := config.GetString(c, "PG_PASS", ""); pass != "" {
		u.User = url.UserPassword(required["PG_USER"], pass)
	} else {
		u.User = url.User(required["PG_USER"])
	}
	q := u.Query()
	q.Set("sslmode", config.GetString(c, "PG_SSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Open connects to postgres with a bounded pool and registers any read
// replicas listed in DB_REPLICA_URLS.
func Open(c map[string]string) (*gorm.DB, error) {
	dsn, err := DSN(c)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Duration(config.GetInt(c, "DB_SLOW_QUERY_MS", 2000)) * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: config.GetBool(c, "DB_SIMPLE_PROTOCOL", true),
	}), &gorm.Config{
		PrepareStmt:            false,
		SkipDefaultTransaction: true,
		Logger:                 gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if replicas := config.GetStrings(c, "DB_REPLICA_URLS", nil); len(replicas) > 0 {
		dialectors := make([]gorm.Dialector, 0, len(replicas))
		for _, replica := range replicas {
			dialectors = append(dialectors, postgres.New(postgres.Config{DSN: replica, PreferSimpleProtocol: true}))
		}
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: dialectors,
			Policy:   dbresolver.RandomPolicy{},
		})
		configurePool(resolver, c)
		if err := db.Use(resolver); err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(config.GetInt(c, "DB_MAX_OPEN_CONNS", 16))
	sqlDB.SetMaxIdleConns(config.GetInt(c, "DB_MAX_IDLE_CONNS", 4))
	sqlDB.SetConnMaxLifetime(time.Duration(config.GetInt(c, "DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second)

	return db, nil
}

func configurePool(resolver *dbresolver.DBResolver, c map[string]string) {
	resolver.
		SetMaxOpenConns(config.GetInt(c, "DB_MAX_OPEN_CONNS", 16)).
		SetMaxIdleConns(config.GetInt(c, "DB_MAX_IDLE_CONNS", 4)).
		SetConnMaxLifetime(time.Duration(config.GetInt(c, "DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second)
}
