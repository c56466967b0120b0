package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lattice-pricer/interfaces"
	"lattice-pricer/models"
	"lattice-pricer/pricing"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrRunNotFound is returned when a journal entry does not exist
var ErrRunNotFound = errors.New("pricing run not found")

// LocalStorage implements the StorageService interface using SQLite
type LocalStorage struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewLocalStorage creates a new local storage service
func NewLocalStorage(dbPath string) (*LocalStorage, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&models.DBPricingRun{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &LocalStorage{
		db:     db,
		logger: logger,
	}, nil
}

// SavePricingRun stores a pricing result and sets its RunID
func (s *LocalStorage) SavePricingRun(run *interfaces.PricingResult) error {
	underlying, err := json.Marshal(run.UnderlyingPrice)
	if err != nil {
		return fmt.Errorf("failed to encode underlying grid: %w", err)
	}
	optionValue, err := json.Marshal(run.OptionValue)
	if err != nil {
		return fmt.Errorf("failed to encode option grid: %w", err)
	}

	params := run.Parameters
	dbRun := &models.DBPricingRun{
		Symbol:                 run.Symbol,
		Spot:                   params.Spot,
		Strike:                 params.Strike,
		Horizon:                params.Horizon,
		Rate:                   params.Rate,
		Up:                     params.Up,
		Down:                   params.Down,
		Steps:                  params.Steps,
		TimeStep:               run.TimeStep,
		RiskNeutralProbability: run.RiskNeutralProbability,
		CallPrice:              run.CallPrice,
		RoundedPrice:           run.RoundedPrice,
		PricedAt:               run.PricedAt,
		UnderlyingPrice:        string(underlying),
		OptionValue:            string(optionValue),
	}

	if err := s.db.Create(dbRun).Error; err != nil {
		return fmt.Errorf("failed to save pricing run: %w", err)
	}

	run.RunID = dbRun.ID
	s.logger.WithFields(logrus.Fields{
		"run_id": dbRun.ID,
		"steps":  params.Steps,
	}).Debug("Pricing run saved")
	return nil
}

// GetPricingRun retrieves a pricing run with its grids
func (s *LocalStorage) GetPricingRun(id uint) (*interfaces.PricingResult, error) {
	var dbRun models.DBPricingRun

	result := s.db.First(&dbRun, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrRunNotFound, id)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get pricing run: %w", result.Error)
	}

	run := toPricingResult(&dbRun)
	if err := json.Unmarshal([]byte(dbRun.UnderlyingPrice), &run.UnderlyingPrice); err != nil {
		return nil, fmt.Errorf("failed to decode underlying grid: %w", err)
	}
	if err := json.Unmarshal([]byte(dbRun.OptionValue), &run.OptionValue); err != nil {
		return nil, fmt.Errorf("failed to decode option grid: %w", err)
	}
	return run, nil
}

// ListPricingRuns returns the most recent runs, newest first, without grids
func (s *LocalStorage) ListPricingRuns(limit int) ([]*interfaces.PricingResult, error) {
	var dbRuns []*models.DBPricingRun

	query := s.db.Model(&models.DBPricingRun{}).
		Omit("underlying_price", "option_value").
		Order("priced_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&dbRuns).Error; err != nil {
		return nil, fmt.Errorf("failed to list pricing runs: %w", err)
	}

	runs := make([]*interfaces.PricingResult, len(dbRuns))
	for i, dbRun := range dbRuns {
		runs[i] = toPricingResult(dbRun)
	}
	return runs, nil
}

// CleanupOldData removes runs priced before the given time
func (s *LocalStorage) CleanupOldData(before time.Time) error {
	s.logger.WithField("before", before).Info("Cleaning up old pricing runs")

	result := s.db.Unscoped().Where("priced_at < ?", before).Delete(&models.DBPricingRun{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete old pricing runs: %w", result.Error)
	}

	s.logger.WithField("deleted", result.RowsAffected).Info("Old pricing runs cleaned up")
	return nil
}

// Close closes the database connection
func (s *LocalStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toPricingResult(dbRun *models.DBPricingRun) *interfaces.PricingResult {
	return &interfaces.PricingResult{
		RunID:  dbRun.ID,
		Symbol: dbRun.Symbol,
		Parameters: pricing.PricingParameters{
			Spot:    dbRun.Spot,
			Strike:  dbRun.Strike,
			Horizon: dbRun.Horizon,
			Rate:    dbRun.Rate,
			Up:      dbRun.Up,
			Down:    dbRun.Down,
			Steps:   dbRun.Steps,
		},
		TimeStep:               dbRun.TimeStep,
		RiskNeutralProbability: dbRun.RiskNeutralProbability,
		CallPrice:              dbRun.CallPrice,
		RoundedPrice:           dbRun.RoundedPrice,
		PricedAt:               dbRun.PricedAt,
	}
}
