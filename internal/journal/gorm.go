package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type record struct {
	ID        uint      `gorm:"primaryKey"`
	SessionID string    `gorm:"size:64;index;not null"`
	Seq       int       `gorm:"not null"`
	Store     string    `gorm:"size:20;not null"`
	Action    string    `gorm:"size:40;not null"`
	Payload   []byte    `gorm:"type:jsonb"`
	At        time.Time `gorm:"index;not null"`
}

func (record) TableName() string { return "journal_entries" }

func toRecord(e Entry) (record, error) {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return record{}, fmt.Errorf("encode payload for %s/%s: %w", e.Store, e.Action, err)
	}
	return record{
		SessionID: e.SessionID,
		Seq:       e.Seq,
		Store:     e.Store,
		Action:    e.Action,
		Payload:   payload,
		At:        e.At.UTC(),
	}, nil
}

// GormSink appends entries to Postgres.
type GormSink struct {
	db *gorm.DB
}

// OpenPostgres connects to dsn and migrates the journal table.
func OpenPostgres(dsn string) (*GormSink, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	return NewGormSink(db)
}

func NewGormSink(db *gorm.DB) (*GormSink, error) {
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return &GormSink{db: db}, nil
}

func (g *GormSink) Write(ctx context.Context, e Entry) error {
	rec, err := toRecord(e)
	if err != nil {
		return err
	}
	if err := g.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("write journal entry: %w", err)
	}
	return nil
}

func (g *GormSink) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
