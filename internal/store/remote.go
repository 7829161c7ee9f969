package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"tillpoint/internal/domain"
)

// Remote is the narrow contract the adapter needs from the cloud database.
// coreOnly restricts a write to the known-safe column set for schema
// mismatch retries (name, price, cost, stock, code, category).
type Remote interface {
	Products(ctx context.Context) ([]domain.Product, error)
	InsertProduct(ctx context.Context, p domain.Product, coreOnly bool) (domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product, coreOnly bool) error
	UpdateStock(ctx context.Context, id int64, stock int) error
	DeleteProduct(ctx context.Context, id int64) error

	Orders(ctx context.Context, limit int) ([]domain.Order, error)
	InsertOrder(ctx context.Context, o domain.Order) (id int64, createdAt string, err error)
	DeleteOrder(ctx context.Context, id int64) error
}

// PG implements Remote against Postgres.
type PG struct{ pool *pgxpool.Pool }

// ConnectRemote opens a pgx pool and verifies connectivity with a ping.
func ConnectRemote(ctx context.Context, dsn string) (*PG, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	return &PG{pool: pool}, nil
}

func (r *PG) Close() { r.pool.Close() }

// classify maps raw pgx errors onto the store error taxonomy. Postgres
// error codes: 42703 undefined_column, 42P01 undefined_table.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42703":
			return fmt.Errorf("%w: %s", domain.ErrSchemaMismatch, pgErr.Message)
		case "42P01":
			return fmt.Errorf("%w: %s", domain.ErrRelationMissing, pgErr.Message)
		}
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
}

func (r *PG) Products(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, COALESCE(code,''), price, cost, stock,
		       COALESCE(category,''), COALESCE(description,''), active, created_at
		FROM products
		ORDER BY created_at
	`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		var created time.Time
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.Price, &p.Cost, &p.Stock,
			&p.Category, &p.Description, &p.Active, &created); err != nil {
			return nil, classify(err)
		}
		p.CreatedAt = created.UTC().Format(time.RFC3339)
		p.Sync = domain.SyncConfirmed
		out = append(out, p)
	}
	return out, classify(rows.Err())
}

func (r *PG) InsertProduct(ctx context.Context, p domain.Product, coreOnly bool) (domain.Product, error) {
	q := `
		INSERT INTO products(name, code, price, cost, stock, category, description, active)
		VALUES($1, NULLIF($2,''), $3, $4, $5, NULLIF($6,''), NULLIF($7,''), $8)
		RETURNING id, created_at
	`
	args := []any{p.Name, p.Code, p.Price, p.Cost, p.Stock, p.Category, p.Description, p.Active}
	if coreOnly {
		q = `
		INSERT INTO products(name, code, price, cost, stock, category)
		VALUES($1, NULLIF($2,''), $3, $4, $5, NULLIF($6,''))
		RETURNING id, created_at
		`
		args = []any{p.Name, p.Code, p.Price, p.Cost, p.Stock, p.Category}
	}

	var created time.Time
	if err := r.pool.QueryRow(ctx, q, args...).Scan(&p.ID, &created); err != nil {
		return domain.Product{}, classify(err)
	}
	p.CreatedAt = created.UTC().Format(time.RFC3339)
	p.Sync = domain.SyncConfirmed
	return p, nil
}

func (r *PG) UpdateProduct(ctx context.Context, p domain.Product, coreOnly bool) error {
	q := `
		UPDATE products
		SET name=$2, code=NULLIF($3,''), price=$4, cost=$5, stock=$6,
		    category=NULLIF($7,''), description=NULLIF($8,''), active=$9
		WHERE id=$1
	`
	args := []any{p.ID, p.Name, p.Code, p.Price, p.Cost, p.Stock, p.Category, p.Description, p.Active}
	if coreOnly {
		q = `
		UPDATE products
		SET name=$2, code=NULLIF($3,''), price=$4, cost=$5, stock=$6, category=NULLIF($7,'')
		WHERE id=$1
		`
		args = []any{p.ID, p.Name, p.Code, p.Price, p.Cost, p.Stock, p.Category}
	}
	_, err := r.pool.Exec(ctx, q, args...)
	return classify(err)
}

func (r *PG) UpdateStock(ctx context.Context, id int64, stock int) error {
	_, err := r.pool.Exec(ctx, `UPDATE products SET stock=$2 WHERE id=$1`, id, stock)
	return classify(err)
}

func (r *PG) DeleteProduct(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	return classify(err)
}

func (r *PG) Orders(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, created_at, items, customer_info, discount_info,
		       COALESCE(payment_method,''), subtotal, discount_amount, total_amount, total_profit
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		var created time.Time
		var items, customer, discount []byte
		if err := rows.Scan(&o.ID, &created, &items, &customer, &discount,
			&o.PaymentMethod, &o.Subtotal, &o.DiscountAmount, &o.Total, &o.TotalProfit); err != nil {
			return nil, classify(err)
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, err
		}
		if len(customer) > 0 {
			if err := json.Unmarshal(customer, &o.Customer); err != nil {
				return nil, err
			}
		}
		if len(discount) > 0 {
			if err := json.Unmarshal(discount, &o.Discount); err != nil {
				return nil, err
			}
		}
		o.CreatedAt = created.UTC().Format(time.RFC3339)
		o.Sync = domain.SyncConfirmed
		out = append(out, o)
	}
	return out, classify(rows.Err())
}

func (r *PG) InsertOrder(ctx context.Context, o domain.Order) (int64, string, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return 0, "", err
	}
	customer, err := json.Marshal(o.Customer)
	if err != nil {
		return 0, "", err
	}
	discount, err := json.Marshal(o.Discount)
	if err != nil {
		return 0, "", err
	}

	var id int64
	var created time.Time
	err = r.pool.QueryRow(ctx, `
		INSERT INTO orders(items, customer_info, discount_info, payment_method,
		                   subtotal, discount_amount, total_amount, total_profit)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, items, customer, discount, o.PaymentMethod,
		o.Subtotal, o.DiscountAmount, o.Total, o.TotalProfit).Scan(&id, &created)
	if err != nil {
		return 0, "", classify(err)
	}
	return id, created.UTC().Format(time.RFC3339), nil
}

func (r *PG) DeleteOrder(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	return classify(err)
}
