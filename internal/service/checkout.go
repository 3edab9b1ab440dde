package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"warungkilat/backend/internal/domain"
	"warungkilat/backend/internal/store"
	"warungkilat/backend/internal/xid"
)

// Checkout sells from the regular catalog. The store applies every stock
// decrement and the ledger insert in one atomic unit, so a failure on any
// cart line leaves nothing behind.
func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResult, error) {
	return s.checkout(ctx, req, domain.TypeRegular)
}

// CheckoutClearance sells single-unit clearance items; the sold rows are
// removed rather than decremented.
func (s *Service) CheckoutClearance(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResult, error) {
	return s.checkout(ctx, req, domain.TypeClearance)
}

func (s *Service) checkout(ctx context.Context, req domain.CheckoutRequest, kind domain.TransactionType) (domain.CheckoutResult, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return domain.CheckoutResult{}, ErrUnauthenticated
	}
	if len(req.Items) == 0 {
		return domain.CheckoutResult{}, fmt.Errorf("%w: empty cart", store.ErrInvalidInput)
	}

	cart := make([]domain.CartItem, 0, len(req.Items))
	for _, line := range req.Items {
		sku := normalizeSKU(line.SKU)
		if sku == "" || line.Qty < 1 {
			return domain.CheckoutResult{}, fmt.Errorf("%w: every cart line needs a sku and qty >= 1", store.ErrInvalidInput)
		}
		if kind == domain.TypeClearance && line.Qty != 1 {
			return domain.CheckoutResult{}, fmt.Errorf("%w: clearance items are single-unit", store.ErrInvalidInput)
		}
		cart = append(cart, domain.CartItem{SKU: sku, Qty: line.Qty})
	}

	record := domain.TransactionRecord{
		TransactionID: xid.Transaction(),
		UserID:        actor.ID,
		Username:      actor.Username,
		Type:          kind,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		CreatedAt:     time.Now().UTC(),
	}

	var created *domain.TransactionRecord
	var err error
	if kind == domain.TypeClearance {
		created, err = s.repo.CreateClearanceCheckout(ctx, record, cart)
	} else {
		created, err = s.repo.CreateCheckout(ctx, record, cart)
	}
	if err != nil {
		return domain.CheckoutResult{}, err
	}

	return domain.CheckoutResult{
		TransactionID: created.TransactionID,
		Total:         created.TotalAmount,
		ItemsCount:    created.ItemsCount,
		Message:       fmt.Sprintf("transaction %s recorded, total Rp%d", created.TransactionID, created.TotalAmount),
	}, nil
}

func (s *Service) FindTransaction(ctx context.Context, transactionID string) (*domain.TransactionRecord, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transaction id required", store.ErrInvalidInput)
	}
	return s.repo.FindTransactionByID(ctx, transactionID)
}

func (s *Service) ListTransactions(ctx context.Context, limit int, offset int) ([]domain.TransactionRecord, error) {
	if limit < 1 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListTransactions(ctx, limit, offset)
}
