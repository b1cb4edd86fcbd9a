package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/esmaelhussen/stock-managment-api/internal/apperrors"
	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
	portsrepo "github.com/esmaelhussen/stock-managment-api/internal/core/ports/repositories"
	"github.com/esmaelhussen/stock-managment-api/internal/models"
	"github.com/esmaelhussen/stock-managment-api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const saleColumns = `
	sale_id, payment_method, discount_type, discount_amount, discount_percent,
	customer_id, source_id, source_type, transacted_by, status, subtotal, final_price,
	creditor_name, installment_amount, credit_frequency, credit_start_date,
	next_due_date, paid_amount, overdue,
	created_at, created_by, last_updated_at, last_updated_by`

const saleItemColumns = `
	sale_item_id, sale_id, product_id, quantity, unit_price,
	discount_type, discount_amount, discount_percent,
	subtotal, discount_value, final_price`

type PgxSaleRepository struct {
	BaseRepository
}

// NewSaleRepository creates a new repository for sale transaction data.
func NewSaleRepository(pool *pgxpool.Pool) portsrepo.SaleRepositoryWithTx {
	return &PgxSaleRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxSaleRepository implements portsrepo.SaleRepositoryWithTx
var _ portsrepo.SaleRepositoryWithTx = (*PgxSaleRepository)(nil)

// SaveSale persists a sale with its items and decrements stock, all within a
// single DB transaction. Stock rows are locked in deterministic order and
// re-checked under lock, so two concurrent sales cannot both drain the same
// units; the loser fails with apperrors.ErrInsufficientStock.
func (r *PgxSaleRepository) SaveSale(ctx context.Context, sale domain.SaleTransaction, stockChanges map[string]int64) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction is committed

	modelSale := mapping.ToModelSaleTransaction(sale)

	saleQuery := `
		INSERT INTO sale_transactions (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
	`
	_, err = tx.Exec(ctx, saleQuery,
		modelSale.SaleID,
		modelSale.PaymentMethod,
		modelSale.DiscountType,
		modelSale.DiscountAmount,
		modelSale.DiscountPercent,
		modelSale.CustomerID,
		modelSale.SourceID,
		modelSale.SourceType,
		modelSale.TransactedBy,
		modelSale.Status,
		modelSale.Subtotal,
		modelSale.FinalPrice,
		modelSale.CreditorName,
		modelSale.InstallmentAmount,
		modelSale.CreditFrequency,
		modelSale.CreditStartDate,
		modelSale.NextDueDate,
		modelSale.PaidAmount,
		modelSale.Overdue,
		modelSale.CreatedAt,
		modelSale.CreatedBy,
		modelSale.LastUpdatedAt,
		modelSale.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert sale "+modelSale.SaleID, err)
	}

	itemQuery := `
		INSERT INTO sale_items (` + saleItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, item := range sale.Items {
		modelItem := mapping.ToModelSaleItem(item)
		_, err = tx.Exec(ctx, itemQuery,
			modelItem.SaleItemID,
			modelItem.SaleID,
			modelItem.ProductID,
			modelItem.Quantity,
			modelItem.UnitPrice,
			modelItem.DiscountType,
			modelItem.DiscountAmount,
			modelItem.DiscountPercent,
			modelItem.Subtotal,
			modelItem.DiscountValue,
			modelItem.FinalPrice,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to insert sale item "+modelItem.SaleItemID, err)
		}
	}

	if err := r.decrementStockInTx(ctx, tx, sale.SourceID, stockChanges, sale.CreatedBy, sale.CreatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// decrementStockInTx locks each affected stock row and deducts the sold
// units. Lock order is sorted by product ID to avoid deadlocks between
// concurrent sales touching overlapping product sets.
func (r *PgxSaleRepository) decrementStockInTx(ctx context.Context, tx pgx.Tx, sourceID string, stockChanges map[string]int64, userID string, now time.Time) error {
	productIDs := make([]string, 0, len(stockChanges))
	for productID := range stockChanges {
		productIDs = append(productIDs, productID)
	}
	sort.Strings(productIDs)

	for _, productID := range productIDs {
		needed := stockChanges[productID]

		var available int64
		err := tx.QueryRow(ctx,
			`SELECT quantity FROM stock_levels WHERE product_id = $1 AND source_id = $2 FOR UPDATE;`,
			productID, sourceID,
		).Scan(&available)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: product %s has 0 available at source %s", apperrors.ErrInsufficientStock, productID, sourceID)
			}
			return apperrors.NewAppError(500, "failed to lock stock row for product "+productID, err)
		}
		if available < needed {
			return fmt.Errorf("%w: product %s has %d available at source %s, requested %d",
				apperrors.ErrInsufficientStock, productID, available, sourceID, needed)
		}

		_, err = tx.Exec(ctx, `
			UPDATE stock_levels
			SET quantity = quantity - $3, last_updated_at = $4, last_updated_by = $5
			WHERE product_id = $1 AND source_id = $2;`,
			productID, sourceID, needed, now, userID,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to decrement stock for product "+productID, err)
		}
	}
	return nil
}

// ApplyCreditPayment loads the sale under row lock, applies the ledger state
// machine, and persists the new paid amount and status. The lock serializes
// concurrent payments against the same sale, so each payment validates
// against a fresh remaining balance.
func (r *PgxSaleRepository) ApplyCreditPayment(ctx context.Context, saleID string, amount decimal.Decimal, updatedBy string, updatedAt time.Time) (*domain.SaleTransaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	row := tx.QueryRow(ctx, `SELECT `+saleColumns+` FROM sale_transactions WHERE sale_id = $1 FOR UPDATE;`, saleID)
	modelSale, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock sale "+saleID, err)
	}

	items, err := queryItems(ctx, tx, `SELECT `+saleItemColumns+` FROM sale_items WHERE sale_id = $1 ORDER BY sale_item_id;`, saleID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to load items for sale "+saleID, err)
	}

	sale := mapping.ToDomainSaleTransaction(*modelSale, items)
	if err := sale.ApplyCreditPayment(amount); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE sale_transactions
		SET paid_amount = $2, status = $3, overdue = $4, last_updated_at = $5, last_updated_by = $6
		WHERE sale_id = $1;`,
		saleID, sale.Credit.PaidAmount, string(sale.Status), sale.Credit.Overdue, updatedAt, updatedBy,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to update credit ledger for sale "+saleID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	sale.LastUpdatedAt = updatedAt
	sale.LastUpdatedBy = updatedBy
	return &sale, nil
}

// UpdateCreditSchedule persists a swept next due date and overdue flag for an
// unpaid credit sale.
func (r *PgxSaleRepository) UpdateCreditSchedule(ctx context.Context, saleID string, nextDueDate time.Time, overdue bool, updatedAt time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE sale_transactions
		SET next_due_date = $2, overdue = $3, last_updated_at = $4
		WHERE sale_id = $1 AND payment_method = 'credit' AND status = 'unpayed';`,
		saleID, nextDueDate, overdue, updatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update credit schedule for sale "+saleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindSaleByID retrieves a sale with its items and credit state.
func (r *PgxSaleRepository) FindSaleByID(ctx context.Context, saleID string) (*domain.SaleTransaction, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+saleColumns+` FROM sale_transactions WHERE sale_id = $1;`, saleID)
	modelSale, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find sale by id %s: %w", saleID, err)
	}

	items, err := queryItems(ctx, r.Pool, `SELECT `+saleItemColumns+` FROM sale_items WHERE sale_id = $1 ORDER BY sale_item_id;`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load items for sale %s: %w", saleID, err)
	}

	sale := mapping.ToDomainSaleTransaction(*modelSale, items)
	return &sale, nil
}

// ListSalesBySource retrieves sales for a source, newest first. An empty
// sourceID lists across all sources. Items are batch-loaded per page.
func (r *PgxSaleRepository) ListSalesBySource(ctx context.Context, sourceID string, limit, offset int) ([]domain.SaleTransaction, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+saleColumns+`
		FROM sale_transactions
		WHERE ($1 = '' OR source_id = $1)
		ORDER BY created_at DESC, sale_id
		LIMIT $2 OFFSET $3;`,
		sourceID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales for source %q: %w", sourceID, err)
	}
	defer rows.Close()

	var modelSales []models.SaleTransaction
	for rows.Next() {
		modelSale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale row: %w", err)
		}
		modelSales = append(modelSales, *modelSale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating sale rows: %w", err)
	}
	if len(modelSales) == 0 {
		return []domain.SaleTransaction{}, nil
	}

	saleIDs := make([]string, len(modelSales))
	for i, m := range modelSales {
		saleIDs[i] = m.SaleID
	}
	itemsBySale, err := r.findItemsBySaleIDs(ctx, saleIDs)
	if err != nil {
		return nil, err
	}

	sales := make([]domain.SaleTransaction, len(modelSales))
	for i, m := range modelSales {
		sales[i] = mapping.ToDomainSaleTransaction(m, itemsBySale[m.SaleID])
	}
	return sales, nil
}

// ListDueCreditSales retrieves unpaid credit sales whose next due date is at
// or before asOf. Items are not loaded; the sweep only needs ledger state.
func (r *PgxSaleRepository) ListDueCreditSales(ctx context.Context, asOf time.Time) ([]domain.SaleTransaction, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+saleColumns+`
		FROM sale_transactions
		WHERE payment_method = 'credit' AND status = 'unpayed' AND next_due_date <= $1
		ORDER BY next_due_date, sale_id;`,
		asOf,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list due credit sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.SaleTransaction
	for rows.Next() {
		modelSale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due credit sale row: %w", err)
		}
		sales = append(sales, mapping.ToDomainSaleTransaction(*modelSale, nil))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating due credit sale rows: %w", err)
	}
	return sales, nil
}

func (r *PgxSaleRepository) findItemsBySaleIDs(ctx context.Context, saleIDs []string) (map[string][]models.SaleItem, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+saleItemColumns+` FROM sale_items WHERE sale_id = ANY($1) ORDER BY sale_item_id;`,
		saleIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load items for sales: %w", err)
	}
	defer rows.Close()

	itemsBySale := make(map[string][]models.SaleItem)
	for rows.Next() {
		var item models.SaleItem
		if err := scanSaleItem(rows, &item); err != nil {
			return nil, fmt.Errorf("failed to scan sale item row: %w", err)
		}
		itemsBySale[item.SaleID] = append(itemsBySale[item.SaleID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating sale item rows: %w", err)
	}
	return itemsBySale, nil
}

// querier lets the item loader run against both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func queryItems(ctx context.Context, q querier, query string, saleID string) ([]models.SaleItem, error) {
	rows, err := q.Query(ctx, query, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.SaleItem
	for rows.Next() {
		var item models.SaleItem
		if err := scanSaleItem(rows, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanSale(row pgx.Row) (*models.SaleTransaction, error) {
	var m models.SaleTransaction
	err := row.Scan(
		&m.SaleID,
		&m.PaymentMethod,
		&m.DiscountType,
		&m.DiscountAmount,
		&m.DiscountPercent,
		&m.CustomerID,
		&m.SourceID,
		&m.SourceType,
		&m.TransactedBy,
		&m.Status,
		&m.Subtotal,
		&m.FinalPrice,
		&m.CreditorName,
		&m.InstallmentAmount,
		&m.CreditFrequency,
		&m.CreditStartDate,
		&m.NextDueDate,
		&m.PaidAmount,
		&m.Overdue,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanSaleItem(row pgx.Row, item *models.SaleItem) error {
	return row.Scan(
		&item.SaleItemID,
		&item.SaleID,
		&item.ProductID,
		&item.Quantity,
		&item.UnitPrice,
		&item.DiscountType,
		&item.DiscountAmount,
		&item.DiscountPercent,
		&item.Subtotal,
		&item.DiscountValue,
		&item.FinalPrice,
	)
}
