package gormrepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"talespin/internal/adapter/repo/gorm/model"
	"talespin/internal/app/ports"

	"gorm.io/gorm"
)

// ReceiptRepo backs the exactly-once receipt burn with the primary-key
// constraint: the insert either wins or reports a replay.
type ReceiptRepo struct {
	db *gorm.DB
}

func NewReceiptRepo(db *gorm.DB) ReceiptRepo {
	return ReceiptRepo{db: db}
}

func (r ReceiptRepo) Consume(ctx context.Context, receiptID string) error {
	row := model.Receipt{ReceiptID: receiptID, ConsumedAt: time.Now().UTC()}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("receipt %q: %w", receiptID, ports.ErrConflict)
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
