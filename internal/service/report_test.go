package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warungkilat/backend/internal/barcode"
	"warungkilat/backend/internal/domain"
	"warungkilat/backend/internal/store"
	"warungkilat/backend/internal/store/memory"
)

func TestFoldPeriodStats(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	// Newest first, the order the store returns them in.
	records := []domain.TransactionRecord{
		{
			TransactionID: "TRX-3",
			Username:      "cashier",
			TotalAmount:   20000,
			Type:          domain.TypeRegular,
			CreatedAt:     now.Add(-10 * time.Minute),
			Items: []domain.LineItem{
				{SKU: "SKU-A", Name: "Produk A", UnitPrice: 5000, Qty: 4, Subtotal: 20000},
			},
		},
		{
			TransactionID: "TRX-2",
			Username:      "cashier",
			TotalAmount:   9000,
			Type:          domain.TypeClearance,
			CreatedAt:     now.Add(-25 * time.Hour),
			// Malformed details: no decoded items, row still counts toward
			// the transaction-level aggregates.
			Items: nil,
		},
		{
			TransactionID: "TRX-1",
			Username:      "admin",
			TotalAmount:   15000,
			Type:          domain.TypeRegular,
			CreatedAt:     now.Add(-26 * time.Hour),
			Items: []domain.LineItem{
				{SKU: "SKU-B", Name: "Produk B", UnitPrice: 2500, Qty: 4, Subtotal: 10000},
				{SKU: "SKU-C", Name: "Produk C", UnitPrice: 5000, Qty: 1, Subtotal: 5000},
			},
		},
	}

	stats := foldPeriodStats("week", records, now)

	assert.Equal(t, "week", stats.Period)
	assert.Equal(t, int64(44000), stats.Summary.TotalRevenue)
	assert.Equal(t, int64(3), stats.Summary.TotalTransactions)
	assert.InDelta(t, 44000.0/3.0, stats.Summary.AvgTransaction, 0.001)
	// Malformed row contributes no product units.
	assert.Equal(t, 9, stats.Summary.TotalProductsSold)

	assert.Equal(t, int64(2), stats.TypeBreakdown.Regular)
	assert.Equal(t, int64(1), stats.TypeBreakdown.Clearance)

	require.Len(t, stats.SalesTrend, 2)
	assert.Equal(t, "2026-08-27", stats.SalesTrend[0].Date)
	assert.Equal(t, int64(24000), stats.SalesTrend[0].Revenue)
	assert.Equal(t, "2026-08-28", stats.SalesTrend[1].Date)
	assert.Equal(t, int64(20000), stats.SalesTrend[1].Revenue)

	// Produk A and Produk B tie at 4 units; A was encountered first.
	require.Len(t, stats.TopProducts, 3)
	assert.Equal(t, "Produk A", stats.TopProducts[0].Name)
	assert.Equal(t, "Produk B", stats.TopProducts[1].Name)
	assert.Equal(t, "Produk C", stats.TopProducts[2].Name)
	assert.Equal(t, int64(20000), stats.TopProducts[0].Revenue)

	require.Len(t, stats.RecentTransactions, 3)
	assert.Equal(t, "TRX-3", stats.RecentTransactions[0].TransactionID)
	assert.Equal(t, "10 minutes ago", stats.RecentTransactions[0].TimeAgo)
	assert.Equal(t, "1 days ago", stats.RecentTransactions[1].TimeAgo)
}

func TestFoldPeriodStatsCapsTopProductsAndRecent(t *testing.T) {
	now := time.Now().UTC()
	records := make([]domain.TransactionRecord, 0, 12)
	for i := 0; i < 12; i++ {
		records = append(records, domain.TransactionRecord{
			TransactionID: "TRX-N",
			TotalAmount:   1000,
			Type:          domain.TypeRegular,
			CreatedAt:     now.Add(-time.Duration(i) * time.Minute),
			Items: []domain.LineItem{
				{SKU: "SKU", Name: string(rune('A' + i)), UnitPrice: 1000, Qty: 1, Subtotal: 1000},
			},
		})
	}

	stats := foldPeriodStats("today", records, now)

	assert.Len(t, stats.TopProducts, 5)
	assert.Len(t, stats.RecentTransactions, 10)
}

func TestRelativeTime(t *testing.T) {
	assert.Equal(t, "just now", relativeTime(30*time.Second))
	assert.Equal(t, "5 minutes ago", relativeTime(5*time.Minute))
	assert.Equal(t, "3 hours ago", relativeTime(3*time.Hour+12*time.Minute))
	assert.Equal(t, "2 days ago", relativeTime(49*time.Hour))
}

// recordingCache counts round trips so the tests can tell a cache hit from
// a recomputation.
type recordingCache struct {
	stored *domain.PeriodStats
	gets   int
	sets   int
}

func (c *recordingCache) Get(_ context.Context, _ string) (*domain.PeriodStats, bool, error) {
	c.gets++
	if c.stored == nil {
		return nil, false, nil
	}
	return c.stored, true, nil
}

func (c *recordingCache) Set(_ context.Context, _ string, value *domain.PeriodStats, _ time.Duration) error {
	c.sets++
	c.stored = value
	return nil
}

func TestPeriodStatsUsesCache(t *testing.T) {
	cacheStub := &recordingCache{}
	svc := New(memory.NewSeeded(), barcode.Noop{}, cacheStub, time.Minute)

	_, err := svc.Checkout(cashierCtx(), domain.CheckoutRequest{
		Items: []domain.CartItem{{SKU: "SKU-KOPI-01", Qty: 2}},
	})
	require.NoError(t, err)

	first, err := svc.PeriodStats(adminCtx(), "today")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Summary.TotalTransactions)
	assert.Equal(t, 1, cacheStub.sets)

	// A second checkout lands, but the cached fold is still served.
	_, err = svc.Checkout(cashierCtx(), domain.CheckoutRequest{
		Items: []domain.CartItem{{SKU: "SKU-KOPI-01", Qty: 1}},
	})
	require.NoError(t, err)

	second, err := svc.PeriodStats(adminCtx(), "today")
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.Summary.TotalTransactions)
	assert.Equal(t, 1, cacheStub.sets)
	assert.Equal(t, 2, cacheStub.gets)
}

func TestPeriodStatsRejectsUnknownPeriod(t *testing.T) {
	svc := newTestService()

	_, err := svc.PeriodStats(adminCtx(), "quarter")
	assert.True(t, errors.Is(err, store.ErrInvalidInput))
}

func TestDailySummaryCountsBothTypes(t *testing.T) {
	svc := newTestService()

	_, err := svc.Checkout(cashierCtx(), domain.CheckoutRequest{
		Items: []domain.CartItem{{SKU: "SKU-MIE-01", Qty: 2}},
	})
	require.NoError(t, err)
	_, err = svc.CheckoutClearance(cashierCtx(), domain.CheckoutRequest{
		Items: []domain.CartItem{{SKU: "SKU-SIRUP-L1", Qty: 1}},
	})
	require.NoError(t, err)

	summary, err := svc.DailySummary(adminCtx(), "")
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.TotalTransactions)
	assert.Equal(t, int64(1), summary.RegularCount)
	assert.Equal(t, int64(1), summary.ClearanceCount)
	assert.Equal(t, int64(2*3500+9400), summary.TotalRevenue)
	require.NotNil(t, summary.FirstTransaction)
	require.NotNil(t, summary.LastTransaction)
	assert.False(t, summary.LastTransaction.Before(*summary.FirstTransaction))
}

func TestDailySummaryRejectsBadDate(t *testing.T) {
	svc := newTestService()

	_, err := svc.DailySummary(adminCtx(), "28-08-2026")
	assert.True(t, errors.Is(err, store.ErrInvalidInput))
}

func TestRangeSummary(t *testing.T) {
	svc := newTestService()

	_, err := svc.Checkout(cashierCtx(), domain.CheckoutRequest{
		Items: []domain.CartItem{{SKU: "SKU-TEH-01", Qty: 1}},
	})
	require.NoError(t, err)

	today := time.Now().UTC().Format("2006-01-02")
	records, err := svc.RangeSummary(adminCtx(), today, today)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = svc.RangeSummary(adminCtx(), today, "2020-01-01")
	assert.True(t, errors.Is(err, store.ErrInvalidInput))

	_, err = svc.RangeSummary(adminCtx(), "notadate", today)
	assert.True(t, errors.Is(err, store.ErrInvalidInput))
}

func TestMonthlyReport(t *testing.T) {
	svc := newTestService()

	_, err := svc.Checkout(cashierCtx(), domain.CheckoutRequest{
		Items: []domain.CartItem{{SKU: "SKU-SABUN-01", Qty: 1}},
	})
	require.NoError(t, err)

	now := time.Now().UTC()
	report, err := svc.MonthlyReport(adminCtx(), now.Year(), int(now.Month()))
	require.NoError(t, err)
	require.Len(t, report, 1)

	assert.Equal(t, now.Format("2006-01-02"), report[0].Date)
	assert.Equal(t, int64(1), report[0].TransactionCount)
	assert.Equal(t, int64(7400), report[0].DailyTotal)
	assert.Equal(t, []string{"cashier"}, report[0].Cashiers)

	_, err = svc.MonthlyReport(adminCtx(), now.Year(), 13)
	assert.True(t, errors.Is(err, store.ErrInvalidInput))
}
