package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"warungkilat/backend/internal/domain"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnavailable       = errors.New("store unavailable")
)

// StockError reports which SKU failed the availability check and how many
// units were actually on hand at that moment. It unwraps to
// ErrInsufficientStock so callers can keep matching with errors.Is.
type StockError struct {
	SKU       string
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available", e.SKU, e.Available)
}

func (e *StockError) Unwrap() error {
	return ErrInsufficientStock
}

// Repository is the storage contract for both catalogs, the ledger and the
// user table. Implementations must make CreateCheckout and
// CreateClearanceCheckout atomic: either every stock mutation and the ledger
// row land together, or nothing is observable.
type Repository interface {
	SearchRegular(ctx context.Context, query string) ([]domain.Product, error)
	SearchClearance(ctx context.Context, query string) ([]domain.ClearanceProduct, error)
	FindBySKU(ctx context.Context, sku string) (*domain.ProductSummary, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	Restock(ctx context.Context, sku string, qty int) (int, error)
	MoveToClearance(ctx context.Context, sku string) (*domain.ClearanceProduct, error)
	SaveBarcode(ctx context.Context, sku string, image []byte) error

	CreateCheckout(ctx context.Context, record domain.TransactionRecord, cart []domain.CartItem) (*domain.TransactionRecord, error)
	CreateClearanceCheckout(ctx context.Context, record domain.TransactionRecord, cart []domain.CartItem) (*domain.TransactionRecord, error)

	FindTransactionByID(ctx context.Context, transactionID string) (*domain.TransactionRecord, error)
	ListTransactions(ctx context.Context, limit int, offset int) ([]domain.TransactionRecord, error)
	ListTransactionsByRange(ctx context.Context, from time.Time, to time.Time) ([]domain.TransactionRecord, error)
	DailySummary(ctx context.Context, day time.Time) (domain.DailySummary, error)
	MonthlyReport(ctx context.Context, year int, month time.Month) ([]domain.MonthlyReportRow, error)

	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
