package session

import (
	"context"
	"encoding/json"
	"errors"

	"buildkit-store/internal/domain"
	sess "buildkit-store/internal/session"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Load(ctx context.Context, id string) (sess.Data, error) {
	const q = `
SELECT data
FROM sessions
WHERE id = $1
`
	var raw []byte
	if err := r.pool.QueryRow(ctx, q, id).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var data sess.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	if data == nil {
		data = sess.Data{}
	}
	return data, nil
}

func (r *postgresRepo) Save(ctx context.Context, id string, data sess.Data) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO sessions (id, data)
VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET
    data = EXCLUDED.data,
    updated_at = now()
`
	_, err = r.pool.Exec(ctx, q, id, raw)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}
