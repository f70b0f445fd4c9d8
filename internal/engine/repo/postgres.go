package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	errx "github.com/orderchat-poc/server/internal/core/error"
	"github.com/orderchat-poc/server/internal/engine/model"
	logx "github.com/orderchat-poc/server/pkg/logger"
)

// PostgresOrderRepository is the append-only order store. Ids come from the
// table's sequence, so they are monotonically assigned.
type PostgresOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepository(pool *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{pool: pool}
}

func (r *PostgresOrderRepository) Insert(ctx context.Context, conversationID string, items []model.CartItem, total float64) (int64, error) {
	b, err := json.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("marshal order items: %w", err)
	}

	var id int64
	err = r.pool.QueryRow(ctx,
		`INSERT INTO orders (phone_number, items, total, status) VALUES ($1, $2, $3, 'pending') RETURNING id`,
		conversationID, b, total,
	).Scan(&id)
	if err != nil {
		logx.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to insert order")
		return 0, errx.WrapPostgres(err)
	}
	return id, nil
}

func (r *PostgresOrderRepository) List(ctx context.Context) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, phone_number, items, total, status, created_at FROM orders ORDER BY created_at DESC`,
	)
	if err != nil {
		logx.Error().Err(err).Msg("failed to list orders")
		return nil, errx.WrapPostgres(err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var (
			o   model.Order
			raw []byte
		)
		if err := rows.Scan(&o.ID, &o.PhoneNumber, &raw, &o.Total, &o.Status, &o.CreatedAt); err != nil {
			return nil, errx.WrapPostgres(err)
		}
		if err := json.Unmarshal(raw, &o.Items); err != nil {
			logx.Warn().Err(err).Int64("order_id", o.ID).Msg("corrupt items payload, returning empty lines")
			o.Items = nil
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.WrapPostgres(err)
	}
	return orders, nil
}

var _ model.OrderRepository = (*PostgresOrderRepository)(nil)
