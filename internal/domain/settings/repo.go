package settings

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) ListChats(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT chat_id FROM notification_chats ORDER BY chat_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *Repo) InsertChat(ctx context.Context, chatID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notification_chats (chat_id) VALUES ($1)
		ON CONFLICT (chat_id) DO NOTHING
	`, chatID)
	return err
}

func (r *Repo) DeleteChat(ctx context.Context, chatID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notification_chats WHERE chat_id=$1`, chatID)
	return err
}
