package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"warungkilat/backend/internal/domain"
	"warungkilat/backend/internal/store"
)

const dateLayout = "2006-01-02"

func (s *Service) DailySummary(ctx context.Context, date string) (domain.DailySummary, error) {
	day := time.Now().UTC()
	if strings.TrimSpace(date) != "" {
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			return domain.DailySummary{}, fmt.Errorf("%w: date must be YYYY-MM-DD", store.ErrInvalidInput)
		}
		day = parsed
	}
	return s.repo.DailySummary(ctx, day)
}

// RangeSummary lists ledger rows between two dates, both inclusive.
func (s *Service) RangeSummary(ctx context.Context, start string, end string) ([]domain.TransactionRecord, error) {
	from, err := time.Parse(dateLayout, strings.TrimSpace(start))
	if err != nil {
		return nil, fmt.Errorf("%w: start must be YYYY-MM-DD", store.ErrInvalidInput)
	}
	endDay, err := time.Parse(dateLayout, strings.TrimSpace(end))
	if err != nil {
		return nil, fmt.Errorf("%w: end must be YYYY-MM-DD", store.ErrInvalidInput)
	}
	if endDay.Before(from) {
		return nil, fmt.Errorf("%w: end before start", store.ErrInvalidInput)
	}
	return s.repo.ListTransactionsByRange(ctx, from, endDay.Add(24*time.Hour))
}

func (s *Service) MonthlyReport(ctx context.Context, year int, month int) ([]domain.MonthlyReportRow, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be 1..12", store.ErrInvalidInput)
	}
	if year < 2000 || year > 2200 {
		return nil, fmt.Errorf("%w: implausible year", store.ErrInvalidInput)
	}
	return s.repo.MonthlyReport(ctx, year, time.Month(month))
}

// PeriodStats aggregates the dashboard view for today, the trailing week or
// the trailing 30 days. Results are cached per period with a short TTL;
// cache failures degrade to a direct ledger scan.
func (s *Service) PeriodStats(ctx context.Context, period string) (domain.PeriodStats, error) {
	period = strings.ToLower(strings.TrimSpace(period))
	if period == "" {
		period = "today"
	}

	now := time.Now().UTC()
	var from time.Time
	switch period {
	case "today":
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case "week":
		from = now.AddDate(0, 0, -7)
	case "month":
		from = now.AddDate(0, 0, -30)
	default:
		return domain.PeriodStats{}, fmt.Errorf("%w: period must be today, week or month", store.ErrInvalidInput)
	}

	key := "stats:" + period
	cached, ok, err := s.reports.Get(ctx, key)
	if err != nil {
		log.Printf("[report-cache] WARN: get %s: %v", key, err)
	} else if ok {
		return *cached, nil
	}

	records, err := s.repo.ListTransactionsByRange(ctx, from, now.Add(time.Second))
	if err != nil {
		return domain.PeriodStats{}, err
	}

	stats := foldPeriodStats(period, records, now)
	if err := s.reports.Set(ctx, key, &stats, s.reportTTL); err != nil {
		log.Printf("[report-cache] WARN: set %s: %v", key, err)
	}
	return stats, nil
}

// foldPeriodStats folds ledger rows (newest first) into the dashboard
// aggregates. Rows whose details payload did not decode still count toward
// revenue, transaction counts and the trend; they are skipped only for the
// per-product aggregates.
func foldPeriodStats(period string, records []domain.TransactionRecord, now time.Time) domain.PeriodStats {
	stats := domain.PeriodStats{
		Period:             period,
		SalesTrend:         []domain.TrendPoint{},
		TopProducts:        []domain.ProductSales{},
		RecentTransactions: []domain.RecentTransaction{},
	}

	trend := make(map[string]int64)
	type productAgg struct {
		name    string
		sold    int
		revenue int64
		seen    int
	}
	products := make(map[string]*productAgg)
	seen := 0

	for _, record := range records {
		stats.Summary.TotalRevenue += record.TotalAmount
		stats.Summary.TotalTransactions++

		day := record.CreatedAt.Format(dateLayout)
		trend[day] += record.TotalAmount

		switch record.Type {
		case domain.TypeRegular:
			stats.TypeBreakdown.Regular++
		case domain.TypeClearance:
			stats.TypeBreakdown.Clearance++
		}

		for _, item := range record.Items {
			stats.Summary.TotalProductsSold += item.Qty
			name := item.Name
			if name == "" {
				name = item.SKU
			}
			agg, ok := products[name]
			if !ok {
				agg = &productAgg{name: name, seen: seen}
				seen++
				products[name] = agg
			}
			agg.sold += item.Qty
			agg.revenue += item.Subtotal
		}

		if len(stats.RecentTransactions) < 10 {
			stats.RecentTransactions = append(stats.RecentTransactions, domain.RecentTransaction{
				TransactionID: record.TransactionID,
				Username:      record.Username,
				TotalAmount:   record.TotalAmount,
				TimeAgo:       relativeTime(now.Sub(record.CreatedAt)),
			})
		}
	}

	if stats.Summary.TotalTransactions > 0 {
		stats.Summary.AvgTransaction = float64(stats.Summary.TotalRevenue) / float64(stats.Summary.TotalTransactions)
	}

	days := make([]string, 0, len(trend))
	for day := range trend {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		stats.SalesTrend = append(stats.SalesTrend, domain.TrendPoint{Date: day, Revenue: trend[day]})
	}

	ranked := make([]*productAgg, 0, len(products))
	for _, agg := range products {
		ranked = append(ranked, agg)
	}
	// Ties keep first-encounter order from the newest-first scan.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].sold != ranked[j].sold {
			return ranked[i].sold > ranked[j].sold
		}
		return ranked[i].seen < ranked[j].seen
	})
	for i := 0; i < len(ranked) && i < 5; i++ {
		stats.TopProducts = append(stats.TopProducts, domain.ProductSales{
			Name:    ranked[i].name,
			Sold:    ranked[i].sold,
			Revenue: ranked[i].revenue,
		})
	}

	return stats
}

func relativeTime(elapsed time.Duration) string {
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%d days ago", int(elapsed.Hours()/24))
	}
}
