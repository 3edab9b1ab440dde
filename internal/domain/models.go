package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Money is whole rupiah stored as int64. The currency has no sub-unit in
// this deployment, so there is no cents scaling anywhere in the system.

// TransactionType is the closed set of ledger entry kinds. The storage and
// wire vocabulary is the legacy one: "biasa" for regular catalog sales and
// "lelang" for clearance sales.
type TransactionType int

const (
	TypeUnknown TransactionType = iota
	TypeRegular
	TypeClearance
)

const (
	storageTypeRegular   = "biasa"
	storageTypeClearance = "lelang"
)

// StorageValue returns the legacy string persisted in the ledger.
func (t TransactionType) StorageValue() string {
	switch t {
	case TypeClearance:
		return storageTypeClearance
	default:
		return storageTypeRegular
	}
}

func (t TransactionType) String() string {
	switch t {
	case TypeRegular:
		return "regular"
	case TypeClearance:
		return "clearance"
	default:
		return "unknown"
	}
}

func (t TransactionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.StorageValue())
}

func (t *TransactionType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTransactionType(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTransactionType maps a stored type string back to the closed variant.
func ParseTransactionType(raw string) (TransactionType, error) {
	switch raw {
	case storageTypeRegular:
		return TypeRegular, nil
	case storageTypeClearance:
		return TypeClearance, nil
	default:
		return TypeUnknown, fmt.Errorf("unknown transaction type %q", raw)
	}
}

// Collection names which catalog a product currently lives in. A SKU exists
// in at most one collection at any time.
type Collection string

const (
	CollectionRegular   Collection = "regular"
	CollectionClearance Collection = "clearance"
)

type Product struct {
	SKU          string     `json:"sku"`
	Name         string     `json:"name"`
	Price        int64      `json:"price"`
	Stock        int        `json:"stock"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	BarcodeImage []byte     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ClearanceProduct is a single sellable unit; there is no stock column.
// Selling it removes the row.
type ClearanceProduct struct {
	SKU          string     `json:"sku"`
	Name         string     `json:"name"`
	Price        int64      `json:"price"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	BarcodeImage []byte     `json:"-"`
	MovedAt      time.Time  `json:"moved_at"`
}

// ProductSummary is the find-by-SKU projection across both catalogs.
// Stock is always 1 for the clearance collection.
type ProductSummary struct {
	SKU        string     `json:"sku"`
	Name       string     `json:"name"`
	Price      int64      `json:"price"`
	Stock      int        `json:"stock"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	Collection Collection `json:"collection"`
}

type CartItem struct {
	SKU string `json:"sku" validate:"required"`
	Qty int    `json:"qty" validate:"gte=1"`
}

// LineItem is one resolved cart line as it entered the ledger. The field
// names match the legacy details payload exactly.
type LineItem struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"price"`
	Qty       int    `json:"qty"`
	Subtotal  int64  `json:"subtotal"`
}

// EncodeLineItems serializes line items into the ledger details column.
func EncodeLineItems(items []LineItem) (string, error) {
	payload, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// DecodeLineItems parses a ledger details payload. Callers that aggregate
// across historical rows must treat a decode error as "no line detail"
// rather than failing the whole report.
func DecodeLineItems(details string) ([]LineItem, error) {
	var items []LineItem
	if err := json.Unmarshal([]byte(details), &items); err != nil {
		return nil, fmt.Errorf("decode line items: %w", err)
	}
	return items, nil
}

// TransactionRecord is one immutable ledger row. Items carries the decoded
// details payload and is nil when the stored payload cannot be parsed.
type TransactionRecord struct {
	ID            int64           `json:"-"`
	TransactionID string          `json:"transaction_id"`
	UserID        int64           `json:"user_id"`
	Username      string          `json:"username"`
	TotalAmount   int64           `json:"total_amount"`
	Type          TransactionType `json:"transaction_type"`
	PaymentMethod string          `json:"payment_method"`
	ItemsCount    int             `json:"items_count"`
	Details       string          `json:"-"`
	Items         []LineItem      `json:"items,omitempty"`
	CreatedAt     time.Time       `json:"transaction_date"`
}

type UserAccount struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Password   string    `json:"-"`
	Role       string    `json:"role"`
	ProfilePic string    `json:"profile_pic,omitempty"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// Actor is the authenticated caller attached to a request context.
type Actor struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type AddProductRequest struct {
	SKU        string `json:"sku" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Price      int64  `json:"price" validate:"gte=0"`
	ExpiryDate string `json:"expiry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type RestockRequest struct {
	SKU string `json:"sku" validate:"required"`
	Qty int    `json:"qty" validate:"gte=1"`
}

type RestockResult struct {
	SKU      string `json:"sku"`
	NewStock int    `json:"new_stock"`
}

type MoveToClearanceRequest struct {
	SKU    string `json:"sku" validate:"required"`
	Reason string `json:"reason" validate:"required"`
}

type MoveToClearanceResult struct {
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	ClearancePrice int64  `json:"clearance_price"`
	Message        string `json:"message"`
}

type CheckoutRequest struct {
	Items         []CartItem `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string     `json:"payment_method,omitempty"`
}

type CheckoutResult struct {
	TransactionID string `json:"transaction_id"`
	Total         int64  `json:"total"`
	ItemsCount    int    `json:"items_count"`
	Message       string `json:"message"`
}

// Reporting projections. All of these are read-only folds over the ledger.

type DailySummary struct {
	Date              string     `json:"date"`
	TotalTransactions int64      `json:"total_transactions"`
	TotalRevenue      int64      `json:"total_revenue"`
	RegularCount      int64      `json:"regular_count"`
	ClearanceCount    int64      `json:"clearance_count"`
	FirstTransaction  *time.Time `json:"first_transaction,omitempty"`
	LastTransaction   *time.Time `json:"last_transaction,omitempty"`
}

type TrendPoint struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
}

type TypeBreakdown struct {
	Regular   int64 `json:"regular"`
	Clearance int64 `json:"clearance"`
}

type ProductSales struct {
	Name    string `json:"name"`
	Sold    int    `json:"sold"`
	Revenue int64  `json:"revenue"`
}

type RecentTransaction struct {
	TransactionID string `json:"transaction_id"`
	Username      string `json:"username"`
	TotalAmount   int64  `json:"total_amount"`
	TimeAgo       string `json:"time_ago"`
}

type StatsSummary struct {
	TotalRevenue      int64   `json:"total_revenue"`
	TotalTransactions int64   `json:"total_transactions"`
	AvgTransaction    float64 `json:"avg_transaction"`
	TotalProductsSold int     `json:"total_products_sold"`
}

type PeriodStats struct {
	Period             string              `json:"period"`
	Summary            StatsSummary        `json:"summary"`
	SalesTrend         []TrendPoint        `json:"sales_trend"`
	TypeBreakdown      TypeBreakdown       `json:"type_breakdown"`
	TopProducts        []ProductSales      `json:"top_products"`
	RecentTransactions []RecentTransaction `json:"recent_transactions"`
}

type MonthlyReportRow struct {
	Date             string   `json:"date"`
	TransactionCount int64    `json:"transaction_count"`
	DailyTotal       int64    `json:"daily_total"`
	Cashiers         []string `json:"cashiers"`
}
