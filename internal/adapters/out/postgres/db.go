package postgres

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"proofparcel/internal/adapters/out/postgres/deliveryrepo"
	"proofparcel/internal/adapters/out/postgres/escrowrepo"
	"proofparcel/internal/adapters/out/postgres/notificationrepo"
	"proofparcel/internal/adapters/out/postgres/receiptrepo"

	"github.com/lib/pq"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ConnectionConfig locates the database.
type ConnectionConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SslMode  string
}

// DSN renders the config as a lib/pq keyword/value connection string.
func (c ConnectionConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SslMode)
}

// Open connects through lib/pq and hands the pool to gorm. Slow queries and
// errors go to logger at warn level.
func Open(dsn string, logger *slog.Logger) (*gorm.DB, error) {
	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.New(
			slog.NewLogLogger(logger.With("component", "gorm").Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	return db, nil
}

// Migrate creates or updates every table the repositories use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&deliveryrepo.DeliveryDTO{},
		&escrowrepo.EntryDTO{},
		&receiptrepo.ReceiptDTO{},
		&notificationrepo.NotificationDTO{},
	)
}
