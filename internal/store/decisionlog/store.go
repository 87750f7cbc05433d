// Package decisionlog persists every evaluation the engine runs, for audit
// and for the decisions API. The engine itself never touches this store; the
// HTTP layer appends after a successful evaluation.
package decisionlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Record is one logged evaluation.
type Record struct {
	TraceID    string          `json:"trace_id"`
	Crop       string          `json:"crop"`
	QuantityKg float64         `json:"quantity_kg"`
	Decision   string          `json:"decision"`
	BestMarket string          `json:"best_market"`
	NetProfit  float64         `json:"net_profit"`
	Result     json.RawMessage `json:"result"`
	CreatedAt  time.Time       `json:"created_at"`
}

type evaluationModel struct {
	ID            int64          `gorm:"column:id;primaryKey"`
	TraceID       string         `gorm:"column:trace_id;uniqueIndex"`
	Crop          string         `gorm:"column:crop;index"`
	QuantityKg    float64        `gorm:"column:quantity_kg"`
	Decision      string         `gorm:"column:decision;index"`
	BestMarket    string         `gorm:"column:best_market"`
	NetProfit     float64        `gorm:"column:net_profit"`
	ResultJSON    datatypes.JSON `gorm:"column:result_json"`
	CreatedAtUnix int64          `gorm:"column:created_at;index"`
}

func (evaluationModel) TableName() string { return "evaluation_log" }

// Store wraps the SQLite-backed evaluation log.
type Store struct {
	db *gorm.DB
}

// NewStore opens and migrates the log database at path.
func NewStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("decision log path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&evaluationModel{}); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// WAL gives the decisions API read parallelism without write contention.
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Append inserts one evaluation record.
func (s *Store) Append(ctx context.Context, rec Record) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("decision log store not initialized")
	}
	if strings.TrimSpace(rec.TraceID) == "" {
		return fmt.Errorf("trace_id required")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	model := evaluationModel{
		TraceID:       rec.TraceID,
		Crop:          strings.ToLower(strings.TrimSpace(rec.Crop)),
		QuantityKg:    rec.QuantityKg,
		Decision:      rec.Decision,
		BestMarket:    rec.BestMarket,
		NetProfit:     rec.NetProfit,
		ResultJSON:    datatypes.JSON(rec.Result),
		CreatedAtUnix: rec.CreatedAt.UnixMilli(),
	}
	return s.db.WithContext(ctx).Create(&model).Error
}

// List returns logged evaluations, newest first.
func (s *Store) List(ctx context.Context, limit, offset int) ([]Record, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("decision log store not initialized")
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	var models []evaluationModel
	if err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(models))
	for _, m := range models {
		out = append(out, modelToRecord(m))
	}
	return out, nil
}

// Get fetches a single evaluation by trace id.
func (s *Store) Get(ctx context.Context, traceID string) (Record, bool, error) {
	if s == nil || s.db == nil {
		return Record{}, false, fmt.Errorf("decision log store not initialized")
	}
	var model evaluationModel
	err := s.db.WithContext(ctx).Where("trace_id = ?", strings.TrimSpace(traceID)).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	return modelToRecord(model), true, nil
}

// Count returns the total number of logged evaluations.
func (s *Store) Count(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("decision log store not initialized")
	}
	var total int64
	if err := s.db.WithContext(ctx).Model(&evaluationModel{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func modelToRecord(m evaluationModel) Record {
	return Record{
		TraceID:    m.TraceID,
		Crop:       m.Crop,
		QuantityKg: m.QuantityKg,
		Decision:   m.Decision,
		BestMarket: m.BestMarket,
		NetProfit:  m.NetProfit,
		Result:     json.RawMessage(m.ResultJSON),
		CreatedAt:  time.UnixMilli(m.CreatedAtUnix),
	}
}
