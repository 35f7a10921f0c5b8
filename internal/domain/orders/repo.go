package orders

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Create сохраняет заявку и возвращает её с присвоенным id.
func (r *Repo) Create(ctx context.Context, o Order) (*Order, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO orders (name, phone, device_id, issue, price, status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at
	`, o.Name, o.Phone, o.DeviceID, o.Issue, o.Price, string(o.Status))
	if err := row.Scan(&o.ID, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repo) List(ctx context.Context, limit int) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, phone, device_id, issue, price, status, created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Name, &o.Phone, &o.DeviceID, &o.Issue, &o.Price, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE orders SET status=$2, updated_at=now() WHERE id=$1
	`, id, string(status))
	return err
}
