package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"

	"hotelverse/internal/domain"
	"hotelverse/internal/shared"
	"hotelverse/internal/storage/mongodb"
	mysqlstore "hotelverse/internal/storage/mysql"
)

// Unconfigured stands in when no database connection exists; every call reports ErrServiceUnavailable.
type Unconfigured struct{}

func (Unconfigured) Ready() error   { return domain.ErrServiceUnavailable }
func (Unconfigured) Driver() string { return "none" }

func (Unconfigured) Insert(context.Context, string, any) (string, error) {
	return "", domain.ErrServiceUnavailable
}

func (Unconfigured) InsertManyIfEmpty(context.Context, string, []any) (int, error) {
	return 0, domain.ErrServiceUnavailable
}

func (Unconfigured) Count(context.Context, string) (int64, error) {
	return 0, domain.ErrServiceUnavailable
}

func (Unconfigured) Find(context.Context, string, domain.Filter, any) error {
	return domain.ErrServiceUnavailable
}

func (Unconfigured) Collections(context.Context) ([]string, error) {
	return nil, domain.ErrServiceUnavailable
}

// CloseFunc releases the store's connection.
type CloseFunc func(context.Context) error

func noopClose(context.Context) error { return nil }

// Open connects the store selected by cfg. An empty DATABASE_URL yields Unconfigured and no error.
func Open(ctx context.Context, cfg shared.Config) (domain.DocumentStore, CloseFunc, error) {
	if cfg.DatabaseURL == "" {
		return Unconfigured{}, noopClose, nil
	}
	switch cfg.StoreDriver {
	case shared.DriverMongo:
		st, err := mongodb.Open(ctx, cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	case shared.DriverMySQL:
		dsn, err := MySQLDSN(cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			return nil, nil, err
		}
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db.Ping: %w", err)
		}
		st := mysqlstore.New(db)
		if err := st.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return st, st.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// MySQLDSN normalizes a go-sql-driver DSN (optionally written as mysql://...) and
// fills in the database name when the DSN leaves it out.
func MySQLDSN(url, dbName string) (string, error) {
	c, err := mysqldrv.ParseDSN(strings.TrimPrefix(url, "mysql://"))
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	if c.DBName == "" {
		c.DBName = dbName
	}
	c.ParseTime = true
	return c.FormatDSN(), nil
}
