package db

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	gormsqlite "github.com/glebarez/sqlite"
	"github.com/suPer8Hu/mindguide/internal/activity"
	"github.com/suPer8Hu/mindguide/internal/chat"
	"github.com/suPer8Hu/mindguide/internal/contact"
	"github.com/suPer8Hu/mindguide/internal/models"
	"github.com/suPer8Hu/mindguide/internal/mood"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	Driver       string // mysql or sqlite
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	Debug        bool
	// SQL errors and slow queries go here; nil discards them.
	Logger *log.Logger
}

// Connect opens the pool shared by every repository.
func Connect(opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case "", "mysql":
		dialector = mysql.Open(opts.DSN)
	case "sqlite":
		dialector = gormsqlite.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER=%q", opts.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger(opts.Logger, opts.Debug)})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if opts.Driver == "sqlite" {
		// single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		if opts.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
		}
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return gdb, nil
}

// Migrate creates or updates every table the services use.
func Migrate(gdb *gorm.DB, lg *log.Logger) error {
	lg.Info("running database migrations")
	if err := gdb.AutoMigrate(
		&models.User{},
		&chat.Message{},
		&activity.Log{},
		&mood.Log{},
		&contact.Submission{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// newGormLogger writes gorm's trace lines through the app logger at warn
// level, or info when debugging.
func newGormLogger(lg *log.Logger, debug bool) logger.Interface {
	if lg == nil {
		return logger.Discard
	}
	lvl, fwd := logger.Warn, log.WarnLevel
	if debug {
		lvl, fwd = logger.Info, log.InfoLevel
	}
	return logger.New(lg.StandardLog(log.StandardLogOptions{ForceLevel: fwd}), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
