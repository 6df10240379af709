// Package recorder provides a write-only analytics sink for ladder
// selections, adapted from the teacher's GORM-backed repository factory:
// the same dialector-switch-and-connection-pool pattern, pointed at a
// single append-only table instead of the task/result/suggestion schema.
package recorder

import (
	"context"
	"fmt"
	"time"

	"github.com/streamkcenter/kcenter/pkg/kcenterconfig"
	"github.com/streamkcenter/kcenter/pkg/telemetry"
	"gorm.io/driver/clickhouse"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// Driver names a supported analytics backend.
type Driver string

const (
	DriverPostgres   Driver = "postgres"
	DriverMySQL      Driver = "mysql"
	DriverSQLite     Driver = "sqlite"
	DriverClickHouse Driver = "clickhouse"
)

// Selection is one row of the append-only ladder-selection log: the
// smallest feasible level chosen after a query was applied, and the
// cluster-quality figures that came with it.
type Selection struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	RunID        string    `gorm:"column:run_id;type:varchar(64);index"`
	Regime       string    `gorm:"column:regime;type:varchar(32)"`
	Op           string    `gorm:"column:op;type:varchar(8)"`
	DataIndex    uint32    `gorm:"column:data_index"`
	NbPoints     uint32    `gorm:"column:nb_points"`
	Level        int       `gorm:"column:level"`
	GuessedRad   float64   `gorm:"column:guessed_radius"`
	TrueRadius   float64   `gorm:"column:true_radius"`
	ClusterCount int       `gorm:"column:cluster_count"`
	RecordedAt   time.Time `gorm:"column:recorded_at;autoCreateTime"`
}

// TableName pins the GORM table name independent of Go package naming.
func (Selection) TableName() string { return "ladder_selections" }

// Recorder persists ladder selections for later analysis. Every method is
// safe to no-op against a nil *Recorder, so callers can wire recording in
// only when -analytics is configured without branching at every call site.
type Recorder struct {
	db *gorm.DB
}

// Open connects to the analytics backend named by cfg and migrates the
// Selection schema. A disabled config returns (nil, nil): a nil *Recorder.
func Open(cfg *kcenterconfig.AnalyticsConfig) (*Recorder, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	var dialector gorm.Dialector
	switch Driver(cfg.Driver) {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverMySQL:
		dialector = mysql.Open(cfg.DSN)
	case DriverSQLite, "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "kcenter.db"
		}
		dialector = sqlite.Open(dsn)
	case DriverClickHouse:
		dialector = clickhouse.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported analytics driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open analytics database: %w", err)
	}

	if telemetry.Enabled() {
		if err := db.Use(tracing.NewPlugin()); err != nil {
			return nil, fmt.Errorf("failed to enable analytics telemetry: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 10
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(maxConns / 2)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping analytics database: %w", err)
	}

	if err := db.AutoMigrate(&Selection{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate analytics schema: %w", err)
	}

	return &Recorder{db: db}, nil
}

// Record appends one selection row. A nil Recorder is a no-op.
func (r *Recorder) Record(ctx context.Context, s Selection) error {
	if r == nil {
		return nil
	}
	return r.db.WithContext(ctx).Create(&s).Error
}

// HealthCheck verifies the underlying connection is still alive.
func (r *Recorder) HealthCheck(ctx context.Context) error {
	if r == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
