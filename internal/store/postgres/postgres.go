package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"warungkilat/backend/internal/domain"
	"warungkilat/backend/internal/store"
	"warungkilat/backend/internal/xid"
)

const searchLimit = 50

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SearchRegular(ctx context.Context, query string) ([]domain.Product, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT sku, name, price, stock, expired_date, created_at, updated_at
		FROM regular_products
		WHERE name ILIKE $1 OR sku ILIKE $1
		ORDER BY name ASC
		LIMIT $2
	`, pattern, searchLimit)
	if err != nil {
		return nil, wrapConn(err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, searchLimit)
	for rows.Next() {
		var p domain.Product
		var expiry sql.NullTime
		if err := rows.Scan(&p.SKU, &p.Name, &p.Price, &p.Stock, &expiry, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.ExpiryDate = timePtr(expiry)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *Store) SearchClearance(ctx context.Context, query string) ([]domain.ClearanceProduct, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT sku, name, price, expired_date, moved_at
		FROM clearance_products
		WHERE name ILIKE $1 OR sku ILIKE $1
		ORDER BY name ASC
		LIMIT $2
	`, pattern, searchLimit)
	if err != nil {
		return nil, wrapConn(err)
	}
	defer rows.Close()

	products := make([]domain.ClearanceProduct, 0, searchLimit)
	for rows.Next() {
		var p domain.ClearanceProduct
		var expiry sql.NullTime
		if err := rows.Scan(&p.SKU, &p.Name, &p.Price, &expiry, &p.MovedAt); err != nil {
			return nil, err
		}
		p.ExpiryDate = timePtr(expiry)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *Store) FindBySKU(ctx context.Context, sku string) (*domain.ProductSummary, error) {
	var summary domain.ProductSummary
	var expiry sql.NullTime

	err := s.db.QueryRowContext(ctx, `
		SELECT sku, name, price, stock, expired_date
		FROM regular_products
		WHERE sku = $1
	`, sku).Scan(&summary.SKU, &summary.Name, &summary.Price, &summary.Stock, &expiry)
	if err == nil {
		summary.ExpiryDate = timePtr(expiry)
		summary.Collection = domain.CollectionRegular
		return &summary, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, wrapConn(err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT sku, name, price, expired_date
		FROM clearance_products
		WHERE sku = $1
	`, sku).Scan(&summary.SKU, &summary.Name, &summary.Price, &expiry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sku %s: %w", sku, store.ErrNotFound)
	}
	if err != nil {
		return nil, wrapConn(err)
	}
	summary.Stock = 1
	summary.ExpiryDate = timePtr(expiry)
	summary.Collection = domain.CollectionClearance
	return &summary, nil
}

// CreateProduct inserts into the regular catalog. The SKU-in-one-catalog
// invariant is enforced here: the clearance existence check and the insert
// run inside one serializable transaction.
func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.SKU == "" || product.Name == "" || product.Price < 0 || product.Stock < 0 {
		return nil, store.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapConn(err)
	}
	defer func() { _ = tx.Rollback() }()

	var inClearance bool
	if err := tx.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM clearance_products WHERE sku = $1)
	`, product.SKU).Scan(&inClearance); err != nil {
		return nil, err
	}
	if inClearance {
		return nil, fmt.Errorf("sku %s: %w", product.SKU, store.ErrConflict)
	}

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	_, err = tx.ExecContext(ctx, `
		INSERT INTO regular_products (sku, name, price, stock, expired_date, barcode_image, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, product.SKU, product.Name, product.Price, product.Stock, nullTime(product.ExpiryDate), product.BarcodeImage, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("sku %s: %w", product.SKU, store.ErrConflict)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	created := product
	return &created, nil
}

func (s *Store) Restock(ctx context.Context, sku string, qty int) (int, error) {
	if qty < 1 {
		return 0, store.ErrInvalidInput
	}

	var newStock int
	err := s.db.QueryRowContext(ctx, `
		UPDATE regular_products
		SET stock = stock + $1, updated_at = now()
		WHERE sku = $2
		RETURNING stock
	`, qty, sku).Scan(&newStock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("sku %s: %w", sku, store.ErrNotFound)
	}
	if err != nil {
		return 0, wrapConn(err)
	}
	return newStock, nil
}

// MoveToClearance migrates a SKU between catalogs atomically: re-read under
// lock, insert the discounted clearance row, delete the regular row. The
// discounted price is floor(price * 0.5) via integer division. At read
// committed a racing second move blocks on the FOR UPDATE lock and then
// sees the deleted row as not found.
func (s *Store) MoveToClearance(ctx context.Context, sku string) (*domain.ClearanceProduct, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapConn(err)
	}
	defer func() { _ = tx.Rollback() }()

	var name string
	var price int64
	var expiry sql.NullTime
	var barcode []byte
	err = tx.QueryRowContext(ctx, `
		SELECT name, price, expired_date, barcode_image
		FROM regular_products
		WHERE sku = $1
		FOR UPDATE
	`, sku).Scan(&name, &price, &expiry, &barcode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sku %s: %w", sku, store.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	moved := domain.ClearanceProduct{
		SKU:          sku,
		Name:         name,
		Price:        price / 2,
		ExpiryDate:   timePtr(expiry),
		BarcodeImage: barcode,
		MovedAt:      time.Now().UTC(),
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO clearance_products (sku, name, price, expired_date, barcode_image, moved_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, moved.SKU, moved.Name, moved.Price, nullTime(moved.ExpiryDate), moved.BarcodeImage, moved.MovedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("sku %s: %w", sku, store.ErrConflict)
		}
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM regular_products WHERE sku = $1`, sku); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &moved, nil
}

func (s *Store) SaveBarcode(ctx context.Context, sku string, image []byte) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE regular_products SET barcode_image = $1, updated_at = now() WHERE sku = $2
	`, image, sku)
	if err != nil {
		return wrapConn(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	res, err = s.db.ExecContext(ctx, `
		UPDATE clearance_products SET barcode_image = $1 WHERE sku = $2
	`, image, sku)
	if err != nil {
		return err
	}
	affected, err = res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("sku %s: %w", sku, store.ErrNotFound)
	}
	return nil
}

// CreateCheckout runs the whole checkout as one transaction at the default
// read committed level. Each cart line pairs the availability check with the
// decrement in a single conditional UPDATE, verified by rows-affected, so
// concurrent checkouts of the same unit cannot both succeed: the loser blocks
// on the row lock, re-evaluates against the committed stock and fails the
// WHERE clause. A stricter isolation level would turn that same race into a
// serialization abort instead of an insufficient-stock error.
func (s *Store) CreateCheckout(ctx context.Context, record domain.TransactionRecord, cart []domain.CartItem) (*domain.TransactionRecord, error) {
	if len(cart) == 0 {
		return nil, fmt.Errorf("%w: empty cart", store.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapConn(err)
	}
	defer func() { _ = tx.Rollback() }()

	items := make([]domain.LineItem, 0, len(cart))
	var total int64
	for _, line := range cart {
		if line.SKU == "" || line.Qty < 1 {
			return nil, fmt.Errorf("%w: bad cart line", store.ErrInvalidInput)
		}

		var name string
		var price int64
		err := tx.QueryRowContext(ctx, `
			SELECT name, price FROM regular_products WHERE sku = $1
		`, line.SKU).Scan(&name, &price)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("sku %s: %w", line.SKU, store.ErrNotFound)
		}
		if err != nil {
			return nil, err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE regular_products
			SET stock = stock - $1, updated_at = now()
			WHERE sku = $2 AND stock >= $1
		`, line.Qty, line.SKU)
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			var available int
			if err := tx.QueryRowContext(ctx, `
				SELECT stock FROM regular_products WHERE sku = $1
			`, line.SKU).Scan(&available); err != nil {
				available = 0
			}
			return nil, &store.StockError{SKU: line.SKU, Available: available}
		}

		subtotal := price * int64(line.Qty)
		total += subtotal
		items = append(items, domain.LineItem{
			SKU:       line.SKU,
			Name:      name,
			UnitPrice: price,
			Qty:       line.Qty,
			Subtotal:  subtotal,
		})
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: zero-total transaction", store.ErrInvalidInput)
	}

	if record.Type == domain.TypeUnknown {
		record.Type = domain.TypeRegular
	}
	created, err := insertLedgerRow(ctx, tx, record, items, total, len(cart))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

// CreateClearanceCheckout removes the single-unit clearance rows. The DELETE
// with RETURNING both claims the unit and yields its price; zero rows means
// the unit is gone (absent SKU, already claimed by an earlier cart line, or
// lost to a concurrent checkout). Runs at read committed for the same reason
// as CreateCheckout: the racing loser must see a domain error, not a
// serialization abort.
func (s *Store) CreateClearanceCheckout(ctx context.Context, record domain.TransactionRecord, cart []domain.CartItem) (*domain.TransactionRecord, error) {
	if len(cart) == 0 {
		return nil, fmt.Errorf("%w: empty cart", store.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapConn(err)
	}
	defer func() { _ = tx.Rollback() }()

	items := make([]domain.LineItem, 0, len(cart))
	var total int64
	for _, line := range cart {
		if line.SKU == "" {
			return nil, fmt.Errorf("%w: bad cart line", store.ErrInvalidInput)
		}
		if line.Qty != 1 {
			return nil, fmt.Errorf("%w: clearance items are single-unit", store.ErrInvalidInput)
		}

		var name string
		var price int64
		err := tx.QueryRowContext(ctx, `
			DELETE FROM clearance_products WHERE sku = $1 RETURNING name, price
		`, line.SKU).Scan(&name, &price)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("sku %s: %w", line.SKU, store.ErrNotFound)
		}
		if err != nil {
			return nil, err
		}

		total += price
		items = append(items, domain.LineItem{
			SKU:       line.SKU,
			Name:      name,
			UnitPrice: price,
			Qty:       1,
			Subtotal:  price,
		})
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: zero-total transaction", store.ErrInvalidInput)
	}

	if record.Type == domain.TypeUnknown {
		record.Type = domain.TypeClearance
	}
	created, err := insertLedgerRow(ctx, tx, record, items, total, len(cart))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

func insertLedgerRow(ctx context.Context, tx *sql.Tx, record domain.TransactionRecord, items []domain.LineItem, total int64, itemsCount int) (*domain.TransactionRecord, error) {
	if record.TransactionID == "" {
		record.TransactionID = xid.Transaction()
	}
	if record.PaymentMethod == "" {
		record.PaymentMethod = "cash"
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	details, err := domain.EncodeLineItems(items)
	if err != nil {
		return nil, err
	}
	record.TotalAmount = total
	record.ItemsCount = itemsCount
	record.Items = items
	record.Details = details

	err = tx.QueryRowContext(ctx, `
		INSERT INTO transaction_history
			(transaction_id, user_id, username, total_amount, transaction_type, payment_method, items_count, details, transaction_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`, record.TransactionID, record.UserID, record.Username, record.TotalAmount,
		record.Type.StorageValue(), record.PaymentMethod, record.ItemsCount, record.Details, record.CreatedAt,
	).Scan(&record.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("transaction %s: %w", record.TransactionID, store.ErrConflict)
		}
		return nil, err
	}
	return &record, nil
}

const transactionColumns = `id, transaction_id, user_id, username, total_amount, transaction_type, payment_method, items_count, details, transaction_date`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanTransaction decodes a ledger row defensively: an unknown stored type
// or malformed details payload never fails the scan, the record just loses
// that dimension.
func scanTransaction(row rowScanner) (domain.TransactionRecord, error) {
	var record domain.TransactionRecord
	var rawType string
	if err := row.Scan(
		&record.ID, &record.TransactionID, &record.UserID, &record.Username,
		&record.TotalAmount, &rawType, &record.PaymentMethod, &record.ItemsCount,
		&record.Details, &record.CreatedAt,
	); err != nil {
		return record, err
	}
	if parsed, err := domain.ParseTransactionType(rawType); err == nil {
		record.Type = parsed
	}
	if items, err := domain.DecodeLineItems(record.Details); err == nil {
		record.Items = items
	}
	return record, nil
}

func (s *Store) FindTransactionByID(ctx context.Context, transactionID string) (*domain.TransactionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transaction_history
		WHERE transaction_id = $1
	`, transactionID)
	record, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, store.ErrNotFound)
	}
	if err != nil {
		return nil, wrapConn(err)
	}
	return &record, nil
}

func (s *Store) ListTransactions(ctx context.Context, limit int, offset int) ([]domain.TransactionRecord, error) {
	if limit < 1 || offset < 0 {
		return nil, store.ErrInvalidInput
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transaction_history
		ORDER BY transaction_date DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, wrapConn(err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (s *Store) ListTransactionsByRange(ctx context.Context, from time.Time, to time.Time) ([]domain.TransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transaction_history
		WHERE transaction_date >= $1 AND transaction_date < $2
		ORDER BY transaction_date DESC, id DESC
	`, from, to)
	if err != nil {
		return nil, wrapConn(err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]domain.TransactionRecord, error) {
	records := make([]domain.TransactionRecord, 0, 32)
	for rows.Next() {
		record, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) DailySummary(ctx context.Context, day time.Time) (domain.DailySummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	summary := domain.DailySummary{Date: start.Format("2006-01-02")}
	var first, last sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(total_amount), 0),
			COALESCE(SUM(CASE WHEN transaction_type = 'biasa' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN transaction_type = 'lelang' THEN 1 ELSE 0 END), 0),
			MIN(transaction_date),
			MAX(transaction_date)
		FROM transaction_history
		WHERE transaction_date >= $1 AND transaction_date < $2
	`, start, end).Scan(
		&summary.TotalTransactions, &summary.TotalRevenue,
		&summary.RegularCount, &summary.ClearanceCount,
		&first, &last,
	)
	if err != nil {
		return domain.DailySummary{}, wrapConn(err)
	}
	summary.FirstTransaction = timePtr(first)
	summary.LastTransaction = timePtr(last)
	return summary, nil
}

func (s *Store) MonthlyReport(ctx context.Context, year int, month time.Month) ([]domain.MonthlyReportRow, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	// Grouped per (day, cashier) and folded here. Joining names in SQL with a
	// delimiter corrupts usernames that contain the delimiter.
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			transaction_date::date AS day,
			username,
			COUNT(*),
			COALESCE(SUM(total_amount), 0)
		FROM transaction_history
		WHERE transaction_date >= $1 AND transaction_date < $2
		GROUP BY day, username
		ORDER BY day DESC
	`, start, end)
	if err != nil {
		return nil, wrapConn(err)
	}
	defer rows.Close()

	report := make([]domain.MonthlyReportRow, 0, 31)
	index := make(map[string]int, 31)
	for rows.Next() {
		var day time.Time
		var username string
		var count int64
		var total int64
		if err := rows.Scan(&day, &username, &count, &total); err != nil {
			return nil, err
		}
		date := day.Format("2006-01-02")
		i, ok := index[date]
		if !ok {
			i = len(report)
			index[date] = i
			report = append(report, domain.MonthlyReportRow{Date: date, Cashiers: []string{}})
		}
		report[i].TransactionCount += count
		report[i].DailyTotal += total
		if username != "" {
			report[i].Cashiers = append(report[i].Cashiers, username)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range report {
		sort.Strings(report[i].Cashiers)
	}
	return report, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	if user.Username == "" || user.Password == "" {
		return store.ErrInvalidInput
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password, role, profile_pic, active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, user.Username, user.Email, user.Password, user.Role, user.ProfilePic, user.Active, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", user.Username, store.ErrConflict)
		}
		return wrapConn(err)
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, COALESCE(email, ''), password, role, COALESCE(profile_pic, ''), active, created_at
		FROM users
		ORDER BY username
	`)
	if err != nil {
		return nil, wrapConn(err)
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 16)
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.Role, &user.ProfilePic, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password = $1 WHERE username = $2
	`, password, username)
	if err != nil {
		return wrapConn(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("user %s: %w", username, store.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// wrapConn tags connection-class failures (SQLSTATE 08xxx, bad driver
// connections) as ErrUnavailable so the API layer can answer 503 instead of
// a generic internal error.
func wrapConn(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "08") {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return err
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
