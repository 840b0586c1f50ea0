package repository

import (
	"context"
	"errors"
	"time"

	"github.com/YongHui-X/ecoplate-sub000/internal/infra"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type IdempotencyRepository struct {
	db DBTX
}

func NewIdempotencyRepository(db DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

func (r *IdempotencyRepository) TryInsert(ctx context.Context, key uuid.UUID, userID int64, requestHash string, expiresAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO idempotency_keys (key, user_id, request_hash, status, expires_at)
		VALUES ($1, $2, $3, 'processing', $4)
		ON CONFLICT (key, user_id) DO NOTHING`,
		key, userID, requestHash, expiresAt,
	)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to claim idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key uuid.UUID, userID int64) (*shared.IdempotencyRecord, error) {
	rec := shared.IdempotencyRecord{Key: key, UserID: userID}
	err := r.db.QueryRow(ctx, `
		SELECT request_hash, status, result_order_id, expires_at
		FROM idempotency_keys WHERE key = $1 AND user_id = $2`,
		key, userID,
	).Scan(&rec.RequestHash, &rec.Status, &rec.ResultOrderID, &rec.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "idempotency key not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query idempotency key", err)
	}
	return &rec, nil
}

func (r *IdempotencyRepository) MarkCompleted(ctx context.Context, key uuid.UUID, userID, orderID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE idempotency_keys
		SET status = 'completed', result_order_id = $3, updated_at = now()
		WHERE key = $1 AND user_id = $2`,
		key, userID, orderID,
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to complete idempotency key", err)
	}
	return nil
}
