package dbmysql

import (
	"fmt"
	"time"

	"GoLoyalty/internal/config"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewMySQL returns a GORM DB instance connected to MySQL
func NewMySQL(cnf *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	dsn := cnf.DSN()
	if cnf.Database.DatabaseName == "" {
		return nil, fmt.Errorf("MYSQL_DATABASE is not set")
	}

	logLevel := logger.Warn
	if cnf.Database.LogQueries {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:      logger.Default.LogMode(logLevel),
		PrepareStmt: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql.DB error: %w", err)
	}
	sqlDB.SetMaxOpenConns(cnf.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cnf.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.WithFields(logrus.Fields{
		"host":     cnf.Database.Host,
		"database": cnf.Database.DatabaseName,
	}).Info("connected to MySQL")

	return db, nil
}

// Migrate creates or updates the tables owned by this service.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Notification{}, &Device{}, &UserActivity{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("sql.DB error: %w", err)
	}
	return sqlDB.Close()
}
