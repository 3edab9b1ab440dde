package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"warungkilat/backend/internal/domain"
	"warungkilat/backend/internal/store"
)

func (s *Service) SearchRegular(ctx context.Context, query string) ([]domain.Product, error) {
	return s.repo.SearchRegular(ctx, strings.TrimSpace(query))
}

func (s *Service) SearchClearance(ctx context.Context, query string) ([]domain.ClearanceProduct, error) {
	return s.repo.SearchClearance(ctx, strings.TrimSpace(query))
}

func (s *Service) FindBySKU(ctx context.Context, sku string) (*domain.ProductSummary, error) {
	sku = normalizeSKU(sku)
	if sku == "" {
		return nil, fmt.Errorf("%w: sku required", store.ErrInvalidInput)
	}
	return s.repo.FindBySKU(ctx, sku)
}

func (s *Service) AddProduct(ctx context.Context, req domain.AddProductRequest) (*domain.Product, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	sku := normalizeSKU(req.SKU)
	name := strings.TrimSpace(req.Name)
	if sku == "" || name == "" || req.Price < 0 {
		return nil, fmt.Errorf("%w: sku, name and a non-negative price are required", store.ErrInvalidInput)
	}

	product := domain.Product{
		SKU:   sku,
		Name:  name,
		Price: req.Price,
	}
	if strings.TrimSpace(req.ExpiryDate) != "" {
		parsed, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("%w: expiry_date must be YYYY-MM-DD", store.ErrInvalidInput)
		}
		product.ExpiryDate = &parsed
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}

	// Label rendering happens off the request path; a barcode failure must
	// never fail product creation.
	go s.generateBarcode(created.SKU)

	return created, nil
}

func (s *Service) generateBarcode(sku string) {
	image, err := s.barcodes.Generate(sku)
	if err != nil {
		log.Printf("[barcode] WARN: generate %s: %v", sku, err)
		return
	}
	if len(image) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repo.SaveBarcode(ctx, sku, image); err != nil {
		log.Printf("[barcode] WARN: save %s: %v", sku, err)
	}
}

func (s *Service) Restock(ctx context.Context, req domain.RestockRequest) (domain.RestockResult, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.RestockResult{}, err
	}

	sku := normalizeSKU(req.SKU)
	if sku == "" || req.Qty < 1 {
		return domain.RestockResult{}, fmt.Errorf("%w: sku and qty >= 1 are required", store.ErrInvalidInput)
	}

	newStock, err := s.repo.Restock(ctx, sku, req.Qty)
	if err != nil {
		return domain.RestockResult{}, err
	}
	return domain.RestockResult{SKU: sku, NewStock: newStock}, nil
}

// MoveToClearance migrates one SKU from the regular catalog into clearance
// at half price. The reason is required for the audit trail but only logged;
// the clearance table does not carry it.
func (s *Service) MoveToClearance(ctx context.Context, req domain.MoveToClearanceRequest) (domain.MoveToClearanceResult, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return domain.MoveToClearanceResult{}, err
	}

	sku := normalizeSKU(req.SKU)
	reason := strings.TrimSpace(req.Reason)
	if sku == "" || reason == "" {
		return domain.MoveToClearanceResult{}, fmt.Errorf("%w: sku and reason are required", store.ErrInvalidInput)
	}

	moved, err := s.repo.MoveToClearance(ctx, sku)
	if err != nil {
		return domain.MoveToClearanceResult{}, err
	}

	log.Printf("[service] %s moved %s to clearance: %s", actor.Username, sku, reason)

	return domain.MoveToClearanceResult{
		SKU:            moved.SKU,
		Name:           moved.Name,
		ClearancePrice: moved.Price,
		Message:        fmt.Sprintf("%s moved to clearance at price Rp%d", moved.Name, moved.Price),
	}, nil
}
