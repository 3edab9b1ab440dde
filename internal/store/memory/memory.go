package memory

import (
	"context"
	"fmt"
	"log"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"warungkilat/backend/internal/domain"
	"warungkilat/backend/internal/store"
	"warungkilat/backend/internal/xid"
)

const searchLimit = 50

// Store is the in-memory Repository used for dev mode and tests. A single
// RWMutex guards every map, so the check-and-mutate rule inside the checkout
// methods holds the same atomicity guarantee the postgres transactions give.
type Store struct {
	mu              sync.RWMutex
	regular         map[string]domain.Product
	clearance       map[string]domain.ClearanceProduct
	ledger          []domain.TransactionRecord
	ledgerByTxID    map[string]int
	usersByUsername map[string]domain.UserAccount
	nextRowID       int64
	nextUserID      int64
}

func New() *Store {
	return &Store{
		regular:         make(map[string]domain.Product),
		clearance:       make(map[string]domain.ClearanceProduct),
		ledger:          make([]domain.TransactionRecord, 0, 128),
		ledgerByTxID:    make(map[string]int),
		usersByUsername: make(map[string]domain.UserAccount),
	}
}

// seedUsers builds the initial in-memory user accounts for dev/demo mode.
// Credentials come from SEED_ADMIN_PASSWORD and SEED_CASHIER_PASSWORD; if
// unset, hardcoded dev defaults are used with a warning. These credentials
// are never used in production (the backend uses PostgreSQL when
// DATABASE_URL is set).
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	cashierPwd := envOr("SEED_CASHIER_PASSWORD", "cashier123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_CASHIER_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_CASHIER_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for i, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, "admin"},
		{"cashier", cashierPwd, "cashier"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			ID:        int64(i + 1),
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func NewSeeded() *Store {
	now := time.Now().UTC()
	products := []domain.Product{
		{SKU: "SKU-MIE-01", Name: "Mie Goreng Instan", Price: 3500, Stock: 120},
		{SKU: "SKU-TELUR-01", Name: "Telur 10 Butir", Price: 26500, Stock: 60},
		{SKU: "SKU-SUSU-01", Name: "Susu UHT 1L", Price: 18900, Stock: 48},
		{SKU: "SKU-ROTI-01", Name: "Roti Tawar", Price: 17800, Stock: 30},
		{SKU: "SKU-KOPI-01", Name: "Kopi Sachet", Price: 2600, Stock: 200},
		{SKU: "SKU-GULA-01", Name: "Gula 1kg", Price: 17400, Stock: 80},
		{SKU: "SKU-TEH-01", Name: "Teh Celup", Price: 9800, Stock: 75},
		{SKU: "SKU-AIR-01", Name: "Air Mineral 600ml", Price: 3900, Stock: 240},
		{SKU: "SKU-KERIPIK-01", Name: "Keripik Singkong", Price: 12800, Stock: 55},
		{SKU: "SKU-COKLAT-01", Name: "Coklat Batang", Price: 8600, Stock: 40},
		{SKU: "SKU-SABUN-01", Name: "Sabun Mandi", Price: 7400, Stock: 90},
		{SKU: "SKU-SHAMPOO-01", Name: "Shampoo Sachet", Price: 3200, Stock: 150},
	}
	clearance := []domain.ClearanceProduct{
		{SKU: "SKU-BISKUIT-L1", Name: "Biskuit Kaleng", Price: 11200, MovedAt: now},
		{SKU: "SKU-SIRUP-L1", Name: "Sirup Cocopandan", Price: 9400, MovedAt: now},
	}

	s := New()
	for _, p := range products {
		p.CreatedAt = now
		p.UpdatedAt = now
		s.regular[p.SKU] = p
	}
	for _, c := range clearance {
		s.clearance[c.SKU] = c
	}
	s.usersByUsername = seedUsers()
	s.nextUserID = int64(len(s.usersByUsername))
	return s
}

func matchesQuery(query, name, sku string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(name), q) || strings.Contains(strings.ToLower(sku), q)
}

func (s *Store) SearchRegular(_ context.Context, query string) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.Product, 0, searchLimit)
	for _, p := range s.regular {
		if matchesQuery(query, p.Name, p.SKU) {
			results = append(results, p)
		}
	}
	slices.SortFunc(results, func(a, b domain.Product) int {
		return strings.Compare(a.Name, b.Name)
	})
	if len(results) > searchLimit {
		results = results[:searchLimit]
	}
	return results, nil
}

func (s *Store) SearchClearance(_ context.Context, query string) ([]domain.ClearanceProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.ClearanceProduct, 0, searchLimit)
	for _, p := range s.clearance {
		if matchesQuery(query, p.Name, p.SKU) {
			results = append(results, p)
		}
	}
	slices.SortFunc(results, func(a, b domain.ClearanceProduct) int {
		return strings.Compare(a.Name, b.Name)
	})
	if len(results) > searchLimit {
		results = results[:searchLimit]
	}
	return results, nil
}

func (s *Store) FindBySKU(_ context.Context, sku string) (*domain.ProductSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.regular[sku]; ok {
		return &domain.ProductSummary{
			SKU:        p.SKU,
			Name:       p.Name,
			Price:      p.Price,
			Stock:      p.Stock,
			ExpiryDate: p.ExpiryDate,
			Collection: domain.CollectionRegular,
		}, nil
	}
	if p, ok := s.clearance[sku]; ok {
		return &domain.ProductSummary{
			SKU:        p.SKU,
			Name:       p.Name,
			Price:      p.Price,
			Stock:      1,
			ExpiryDate: p.ExpiryDate,
			Collection: domain.CollectionClearance,
		}, nil
	}
	return nil, fmt.Errorf("sku %s: %w", sku, store.ErrNotFound)
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.SKU == "" || product.Name == "" || product.Price < 0 || product.Stock < 0 {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.regular[product.SKU]; exists {
		return nil, fmt.Errorf("sku %s: %w", product.SKU, store.ErrConflict)
	}
	if _, exists := s.clearance[product.SKU]; exists {
		return nil, fmt.Errorf("sku %s: %w", product.SKU, store.ErrConflict)
	}

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	s.regular[product.SKU] = product
	created := product
	return &created, nil
}

func (s *Store) Restock(_ context.Context, sku string, qty int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty < 1 {
		return 0, store.ErrInvalidInput
	}
	product, ok := s.regular[sku]
	if !ok {
		return 0, fmt.Errorf("sku %s: %w", sku, store.ErrNotFound)
	}
	product.Stock += qty
	product.UpdatedAt = time.Now().UTC()
	s.regular[sku] = product
	return product.Stock, nil
}

func (s *Store) MoveToClearance(_ context.Context, sku string) (*domain.ClearanceProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.regular[sku]
	if !ok {
		return nil, fmt.Errorf("sku %s: %w", sku, store.ErrNotFound)
	}
	if _, exists := s.clearance[sku]; exists {
		return nil, fmt.Errorf("sku %s: %w", sku, store.ErrConflict)
	}

	moved := domain.ClearanceProduct{
		SKU:          product.SKU,
		Name:         product.Name,
		Price:        product.Price / 2,
		ExpiryDate:   product.ExpiryDate,
		BarcodeImage: product.BarcodeImage,
		MovedAt:      time.Now().UTC(),
	}
	s.clearance[sku] = moved
	delete(s.regular, sku)

	result := moved
	return &result, nil
}

func (s *Store) SaveBarcode(_ context.Context, sku string, image []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.regular[sku]; ok {
		p.BarcodeImage = image
		p.UpdatedAt = time.Now().UTC()
		s.regular[sku] = p
		return nil
	}
	if p, ok := s.clearance[sku]; ok {
		p.BarcodeImage = image
		s.clearance[sku] = p
		return nil
	}
	return fmt.Errorf("sku %s: %w", sku, store.ErrNotFound)
}

// CreateCheckout validates the whole cart against regular stock before
// mutating anything, then applies decrements and appends the ledger row
// under the same write lock. A failed line leaves no observable change.
func (s *Store) CreateCheckout(_ context.Context, record domain.TransactionRecord, cart []domain.CartItem) (*domain.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(cart) == 0 {
		return nil, fmt.Errorf("%w: empty cart", store.ErrInvalidInput)
	}

	items := make([]domain.LineItem, 0, len(cart))
	consumed := make(map[string]int, len(cart))
	var total int64
	for _, line := range cart {
		if line.SKU == "" || line.Qty < 1 {
			return nil, fmt.Errorf("%w: bad cart line", store.ErrInvalidInput)
		}
		product, ok := s.regular[line.SKU]
		if !ok {
			return nil, fmt.Errorf("sku %s: %w", line.SKU, store.ErrNotFound)
		}
		remaining := product.Stock - consumed[line.SKU]
		if remaining < line.Qty {
			return nil, &store.StockError{SKU: line.SKU, Available: remaining}
		}
		consumed[line.SKU] += line.Qty
		subtotal := product.Price * int64(line.Qty)
		total += subtotal
		items = append(items, domain.LineItem{
			SKU:       product.SKU,
			Name:      product.Name,
			UnitPrice: product.Price,
			Qty:       line.Qty,
			Subtotal:  subtotal,
		})
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: zero-total transaction", store.ErrInvalidInput)
	}

	now := time.Now().UTC()
	if record.Type == domain.TypeUnknown {
		record.Type = domain.TypeRegular
	}
	staged, err := s.stageLedgerRow(record, items, total, len(cart), now)
	if err != nil {
		return nil, err
	}

	for sku, qty := range consumed {
		product := s.regular[sku]
		product.Stock -= qty
		product.UpdatedAt = now
		s.regular[sku] = product
	}

	return s.publishLedgerRow(staged), nil
}

// CreateClearanceCheckout removes the sold single-unit rows instead of
// decrementing; a duplicate SKU in the cart fails as not found because the
// first line already claimed the unit.
func (s *Store) CreateClearanceCheckout(_ context.Context, record domain.TransactionRecord, cart []domain.CartItem) (*domain.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(cart) == 0 {
		return nil, fmt.Errorf("%w: empty cart", store.ErrInvalidInput)
	}

	items := make([]domain.LineItem, 0, len(cart))
	claimed := make(map[string]bool, len(cart))
	var total int64
	for _, line := range cart {
		if line.SKU == "" {
			return nil, fmt.Errorf("%w: bad cart line", store.ErrInvalidInput)
		}
		if line.Qty != 1 {
			return nil, fmt.Errorf("%w: clearance items are single-unit", store.ErrInvalidInput)
		}
		product, ok := s.clearance[line.SKU]
		if !ok || claimed[line.SKU] {
			return nil, fmt.Errorf("sku %s: %w", line.SKU, store.ErrNotFound)
		}
		claimed[line.SKU] = true
		total += product.Price
		items = append(items, domain.LineItem{
			SKU:       product.SKU,
			Name:      product.Name,
			UnitPrice: product.Price,
			Qty:       1,
			Subtotal:  product.Price,
		})
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: zero-total transaction", store.ErrInvalidInput)
	}

	if record.Type == domain.TypeUnknown {
		record.Type = domain.TypeClearance
	}
	staged, err := s.stageLedgerRow(record, items, total, len(cart), time.Now().UTC())
	if err != nil {
		return nil, err
	}

	for sku := range claimed {
		delete(s.clearance, sku)
	}

	return s.publishLedgerRow(staged), nil
}

// stageLedgerRow validates and completes a ledger row without publishing it.
// It must run before any catalog mutation so a rejected row (duplicate
// transaction id, unencodable details) leaves nothing behind.
func (s *Store) stageLedgerRow(record domain.TransactionRecord, items []domain.LineItem, total int64, itemsCount int, now time.Time) (domain.TransactionRecord, error) {
	if record.TransactionID == "" {
		record.TransactionID = xid.Transaction()
	}
	if _, dup := s.ledgerByTxID[record.TransactionID]; dup {
		return domain.TransactionRecord{}, fmt.Errorf("transaction %s: %w", record.TransactionID, store.ErrConflict)
	}
	if record.PaymentMethod == "" {
		record.PaymentMethod = "cash"
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}

	details, err := domain.EncodeLineItems(items)
	if err != nil {
		return domain.TransactionRecord{}, err
	}

	record.TotalAmount = total
	record.ItemsCount = itemsCount
	record.Items = items
	record.Details = details
	return record, nil
}

func (s *Store) publishLedgerRow(record domain.TransactionRecord) *domain.TransactionRecord {
	s.nextRowID++
	record.ID = s.nextRowID
	s.ledger = append(s.ledger, record)
	s.ledgerByTxID[record.TransactionID] = len(s.ledger) - 1

	created := cloneRecord(record)
	return &created
}

func cloneRecord(record domain.TransactionRecord) domain.TransactionRecord {
	record.Items = slices.Clone(record.Items)
	return record
}

func (s *Store) FindTransactionByID(_ context.Context, transactionID string) (*domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.ledgerByTxID[transactionID]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, store.ErrNotFound)
	}
	record := cloneRecord(s.ledger[idx])
	return &record, nil
}

func (s *Store) ListTransactions(_ context.Context, limit int, offset int) ([]domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit < 1 || offset < 0 {
		return nil, store.ErrInvalidInput
	}

	results := make([]domain.TransactionRecord, 0, limit)
	for i := len(s.ledger) - 1 - offset; i >= 0 && len(results) < limit; i-- {
		results = append(results, cloneRecord(s.ledger[i]))
	}
	return results, nil
}

func (s *Store) ListTransactionsByRange(_ context.Context, from time.Time, to time.Time) ([]domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.TransactionRecord, 0, 32)
	for i := len(s.ledger) - 1; i >= 0; i-- {
		at := s.ledger[i].CreatedAt
		if at.Before(from) || !at.Before(to) {
			continue
		}
		results = append(results, cloneRecord(s.ledger[i]))
	}
	slices.SortStableFunc(results, func(a, b domain.TransactionRecord) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return results, nil
}

func (s *Store) DailySummary(_ context.Context, day time.Time) (domain.DailySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	summary := domain.DailySummary{Date: start.Format("2006-01-02")}
	for _, record := range s.ledger {
		at := record.CreatedAt
		if at.Before(start) || !at.Before(end) {
			continue
		}
		summary.TotalTransactions++
		summary.TotalRevenue += record.TotalAmount
		switch record.Type {
		case domain.TypeRegular:
			summary.RegularCount++
		case domain.TypeClearance:
			summary.ClearanceCount++
		}
		if summary.FirstTransaction == nil || at.Before(*summary.FirstTransaction) {
			first := at
			summary.FirstTransaction = &first
		}
		if summary.LastTransaction == nil || at.After(*summary.LastTransaction) {
			last := at
			summary.LastTransaction = &last
		}
	}
	return summary, nil
}

func (s *Store) MonthlyReport(_ context.Context, year int, month time.Month) ([]domain.MonthlyReportRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	type bucket struct {
		count    int64
		total    int64
		cashiers map[string]bool
	}
	buckets := make(map[string]*bucket)
	for _, record := range s.ledger {
		at := record.CreatedAt
		if at.Before(start) || !at.Before(end) {
			continue
		}
		key := at.Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{cashiers: make(map[string]bool)}
			buckets[key] = b
		}
		b.count++
		b.total += record.TotalAmount
		if record.Username != "" {
			b.cashiers[record.Username] = true
		}
	}

	rows := make([]domain.MonthlyReportRow, 0, len(buckets))
	for date, b := range buckets {
		cashiers := make([]string, 0, len(b.cashiers))
		for name := range b.cashiers {
			cashiers = append(cashiers, name)
		}
		sort.Strings(cashiers)
		rows = append(rows, domain.MonthlyReportRow{
			Date:             date,
			TransactionCount: b.count,
			DailyTotal:       b.total,
			Cashiers:         cashiers,
		})
	}
	slices.SortFunc(rows, func(a, b domain.MonthlyReportRow) int {
		return strings.Compare(b.Date, a.Date)
	})
	return rows, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.Username == "" || user.Password == "" {
		return store.ErrInvalidInput
	}
	if _, exists := s.usersByUsername[user.Username]; exists {
		return fmt.Errorf("user %s: %w", user.Username, store.ErrConflict)
	}
	s.nextUserID++
	user.ID = s.nextUserID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.usersByUsername[user.Username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, user := range s.usersByUsername {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return strings.Compare(a.Username, b.Username)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.usersByUsername[username]
	if !ok {
		return fmt.Errorf("user %s: %w", username, store.ErrNotFound)
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}
