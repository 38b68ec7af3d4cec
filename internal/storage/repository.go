// Package storage persists transactions in SQLite. It is the write side
// the projection core deliberately does not have: readers get flat
// transaction lists out, and the reconciliation worker batches status
// updates back in.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"bilancio/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const transactionColumns = `id, kind, description, amount, transaction_date, due_date, status,
	is_recurring, rule_kind, custom_day, months_cap,
	category_name, category_color, category_icon,
	subcategory_name, subcategory_color, subcategory_icon`

// ListTransactions returns every stored transaction, newest first. The id
// tie-break keeps the order stable so projection fingerprints stay
// cacheable.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY transaction_date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// GetTransaction returns a single transaction by id.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return core.Transaction{}, fmt.Errorf("transaction %s not found", id)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// Append stores a transaction and returns its id, minting one when the
// caller left it empty.
func (r *SQLiteRepository) Append(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = core.StatusDue
	}

	var dueDate any
	if !t.DueDate.IsZero() {
		dueDate = t.DueDate.String()
	}

	var isRecurring int64
	var ruleKind, catName, catColor, catIcon, subName, subColor, subIcon any
	var customDay, monthsCap any
	if t.Recurrence != nil {
		if t.Recurrence.IsRecurring {
			isRecurring = 1
		}
		ruleKind = string(t.Recurrence.Rule)
		customDay = int64(t.Recurrence.CustomDay)
		monthsCap = int64(t.Recurrence.MonthsCap)
	}
	if t.Category != nil {
		catName, catColor, catIcon = t.Category.Name, t.Category.Color, t.Category.Icon
	}
	if t.Subcategory != nil {
		subName, subColor, subIcon = t.Subcategory.Name, t.Subcategory.Color, t.Subcategory.Icon
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (
			id, kind, description, amount, transaction_date, due_date, status,
			is_recurring, rule_kind, custom_day, months_cap,
			category_name, category_color, category_icon,
			subcategory_name, subcategory_color, subcategory_icon
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.Kind), t.Description, t.Amount.String(), t.Date.String(), dueDate, string(t.Status),
		isRecurring, ruleKind, customDay, monthsCap,
		catName, catColor, catIcon,
		subName, subColor, subIcon,
	)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"description", t.Description,
		"amount", t.Amount.String(),
		"date", t.Date.String())

	return t.ID, nil
}

// MarkOverdue flips the given transactions from due to overdue in one
// statement. Paid transactions are left alone regardless of the id list.
func (r *SQLiteRepository) MarkOverdue(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET status = 'overdue', updated_at = datetime('now')
		WHERE status = 'due' AND id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("mark overdue: %w", err)
	}

	updated, _ := res.RowsAffected()
	slog.InfoContext(ctx, "Marked transactions overdue",
		"requested", len(ids),
		"updated", updated)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t                          core.Transaction
		kind, status, amount, date string
		dueDate, ruleKind          sql.NullString
		isRecurring                int64
		customDay, monthsCap       sql.NullInt64
		catName, catColor, catIcon sql.NullString
		subName, subColor, subIcon sql.NullString
	)

	err := row.Scan(
		&t.ID, &kind, &t.Description, &amount, &date, &dueDate, &status,
		&isRecurring, &ruleKind, &customDay, &monthsCap,
		&catName, &catColor, &catIcon,
		&subName, &subColor, &subIcon,
	)
	if err != nil {
		return core.Transaction{}, err
	}

	t.Kind = core.Kind(kind)
	t.Status = core.Status(status)

	if t.Amount, err = core.ParseAmount(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("amount %q: %w", amount, err)
	}
	if t.Date, err = core.ParseDate(date); err != nil {
		return core.Transaction{}, fmt.Errorf("transaction_date %q: %w", date, err)
	}
	if dueDate.Valid && dueDate.String != "" {
		if t.DueDate, err = core.ParseDate(dueDate.String); err != nil {
			return core.Transaction{}, fmt.Errorf("due_date %q: %w", dueDate.String, err)
		}
	}

	if isRecurring == 1 || ruleKind.Valid {
		t.Recurrence = &core.RecurrenceSpec{
			IsRecurring: isRecurring == 1,
			Rule:        core.RuleKind(ruleKind.String),
			CustomDay:   int(customDay.Int64),
			MonthsCap:   int(monthsCap.Int64),
		}
	}
	if catName.Valid && catName.String != "" {
		t.Category = &core.CategoryRef{Name: catName.String, Color: catColor.String, Icon: catIcon.String}
	}
	if subName.Valid && subName.String != "" {
		t.Subcategory = &core.CategoryRef{Name: subName.String, Color: subColor.String, Icon: subIcon.String}
	}

	return t, nil
}
