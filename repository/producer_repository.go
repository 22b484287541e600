package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sadapurne/producer-verification/dto"
)

// ProducerStore persists verified producers keyed by Aadhaar number.
type ProducerStore interface {
	Upsert(ctx context.Context, producer *dto.VerifiedProducer) error
	GetByAadhar(ctx context.Context, aadhar string) (*dto.VerifiedProducer, error)
	GetAll(ctx context.Context) ([]dto.VerifiedProducer, error)
}

// ErrNotFound is returned when no producer exists for the given Aadhaar.
var ErrNotFound = gorm.ErrRecordNotFound

type producerRepository struct {
	db *gorm.DB
}

// Connect opens the postgres connection and migrates the
// verified_producers table.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connection to db failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get db from GORM: %w", err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&dto.VerifiedProducer{}); err != nil {
		return nil, fmt.Errorf("automigration failed for VerifiedProducer: %w", err)
	}

	log.Println("Connected to database successfully")
	return db, nil
}

func NewProducerRepository(db *gorm.DB) ProducerStore {
	return &producerRepository{db: db}
}

// Upsert inserts or replaces the record for the producer's Aadhaar.
// Last write wins.
func (r *producerRepository) Upsert(ctx context.Context, producer *dto.VerifiedProducer) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "aadhar"}},
			UpdateAll: true,
		}).
		Create(producer).Error
}

func (r *producerRepository) GetByAadhar(ctx context.Context, aadhar string) (*dto.VerifiedProducer, error) {
	var producer dto.VerifiedProducer
	if err := r.db.WithContext(ctx).Where("aadhar = ?", aadhar).First(&producer).Error; err != nil {
		return nil, err
	}
	return &producer, nil
}

func (r *producerRepository) GetAll(ctx context.Context) ([]dto.VerifiedProducer, error) {
	producers := []dto.VerifiedProducer{}
	if err := r.db.WithContext(ctx).Find(&producers).Error; err != nil {
		return nil, err
	}
	return producers, nil
}
