package database

import (
	"fmt"

	"datafeed/logging"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DbBackend string

const (
	Sqlite   DbBackend = "sqlite"
	Postgres DbBackend = "postgres"
)

var Tabels = []interface{}{
	&RequestLog{},
}

// SetupDatabase opens and migrates the request log. dsn is the database file
// for sqlite and a connection string for postgres.
func SetupDatabase(
	dbBackend string,
	dsn string,
	debug bool,
) (*gorm.DB, error) {
	log := logging.GetLogger("database")

	var dialector gorm.Dialector
	switch DbBackend(dbBackend) {
	case Sqlite:
		dialector = sqlite.Open(dsn)
	case Postgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported/unimplemented database backend: %s", dbBackend)
	}

	logMode := logger.Silent
	if debug {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if DbBackend(dbBackend) == Sqlite {
		// sqlite allows a single writer
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access connection pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	stmt := &gorm.Statement{DB: db}
	for i, table := range Tabels {
		if err := stmt.Parse(table); err != nil {
			return nil, fmt.Errorf("failed to parse table model: %w", err)
		}
		log.Debug().Msgf("Migrating table (%v/%v): %v", i+1, len(Tabels), stmt.Schema.Table)
		if err := db.AutoMigrate(table); err != nil {
			return nil, fmt.Errorf("failed to migrate table %s: %w", stmt.Schema.Table, err)
		}
	}

	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
