// Package inventory holds per-product stock and performs reservations inside the caller's
// transaction.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ruslanbektulqinov01/e-commerce/internal/domain"
	"github.com/ruslanbektulqinov01/e-commerce/internal/models"
	pkgdb "github.com/ruslanbektulqinov01/e-commerce/pkg/db"
)

type Ledger struct {
	db *gorm.DB
}

// NewLedger binds a ledger to db. Pass the order transaction so decrements commit or roll back
// together with the order rows.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Reserve atomically checks and decrements the product stock and returns the unit price current
// at reservation time.
//
// The guarded UPDATE takes the row lock and re-evaluates the stock predicate under it, so two
// concurrent reservations of the same product can never both pass on a stale quantity.
func (l *Ledger) Reserve(ctx context.Context, productID uint, quantity int) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, fmt.Errorf("%w: quantity must be > 0", domain.ErrValidation)
	}

	res := l.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_active = ? AND available_quantity >= ?", productID, true, quantity).
		Update("available_quantity", gorm.Expr("available_quantity - ?", quantity))
	if res.Error != nil {
		return decimal.Zero, storageErr("reserve", res.Error)
	}
	if res.RowsAffected == 0 {
		return decimal.Zero, l.rejection(ctx, productID, quantity)
	}

	var p models.Product
	if err := l.db.WithContext(ctx).Select("id", "price").Where("id = ?", productID).Take(&p).Error; err != nil {
		return decimal.Zero, storageErr("read price", err)
	}
	return p.Price, nil
}

// Available returns the current stock of an orderable product.
func (l *Ledger) Available(ctx context.Context, productID uint) (int, error) {
	var p models.Product
	err := l.db.WithContext(ctx).
		Select("id", "available_quantity", "is_active").
		Where("id = ?", productID).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !p.IsActive) {
		return 0, &domain.ProductError{ProductID: productID, Err: domain.ErrProductNotFound}
	}
	if err != nil {
		return 0, storageErr("available", err)
	}
	return p.AvailableQuantity, nil
}

func (l *Ledger) rejection(ctx context.Context, productID uint, quantity int) error {
	available, err := l.Available(ctx, productID)
	if err != nil {
		var pe *domain.ProductError
		if errors.As(err, &pe) {
			pe.Requested = quantity
		}
		return err
	}
	return &domain.ProductError{
		ProductID: productID,
		Requested: quantity,
		Available: available,
		Err:       domain.ErrInsufficientStock,
	}
}

func storageErr(op string, err error) error {
	if pkgdb.IsConflict(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
