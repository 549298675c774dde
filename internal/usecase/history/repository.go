package history

import (
	"context"

	"github.com/jackc/pgx/v5"

	historyv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/history/v1"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/errors"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/logger"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/postgresql"
)

// repository archives orders and trades to Postgres.
type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
}

// NewRepository creates a new history repository.
func NewRepository(db postgresql.PostgreSQLClient, log logger.Interface) *repository {
	return &repository{
		db:     db,
		logger: log,
	}
}

// StoreOrder upserts the current state of an order.
func (r *repository) StoreOrder(ctx context.Context, record *historyv1.OrderRecord) error {
	query := `INSERT INTO orders (id, pair, owner, side, kind, price, original_amount, remaining_amount, status, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET remaining_amount = EXCLUDED.remaining_amount, status = EXCLUDED.status`

	cmd, err := r.db.Exec(ctx, query,
		record.OrderID,
		record.Pair,
		record.Owner,
		record.Side,
		record.Kind,
		record.Price,
		record.OriginalAmount,
		record.RemainingAmount,
		record.Status,
		record.Timestamp,
	)
	if err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.Debug("Archived order", logger.Field{
		Key:   "commandTag",
		Value: cmd.String(),
	})

	return nil
}

// StoreTrades bulk-inserts executed trades using PostgreSQL COPY.
func (r *repository) StoreTrades(ctx context.Context, records []*historyv1.TradeRecord) error {
	if len(records) == 0 {
		return nil
	}

	copyCount, err := r.db.CopyFrom(ctx, pgx.Identifier{"trades"}, []string{
		"id",
		"pair",
		"buy_order_id",
		"sell_order_id",
		"buyer",
		"seller",
		"amount",
		"price",
		"timestamp",
	}, pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
		record := records[i]
		return []any{
			record.TradeID,
			record.Pair,
			record.BuyOrderID,
			record.SellOrderID,
			record.Buyer,
			record.Seller,
			record.Amount,
			record.Price,
			record.Timestamp,
		}, nil
	}))

	if err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.Debug("Archived trades", logger.Field{
		Key:   "copyCount",
		Value: copyCount,
	})

	return nil
}

// StoreOrderWithTrades archives a matched order together with the trades it
// produced. Both writes run in one transaction so a placement is never half
// archived.
func (r *repository) StoreOrderWithTrades(ctx context.Context, record *historyv1.OrderRecord, trades []*historyv1.TradeRecord) error {
	return postgresql.WithTx(ctx, r.db, func(txCtx context.Context) error {
		if err := r.StoreOrder(txCtx, record); err != nil {
			return err
		}
		return r.StoreTrades(txCtx, trades)
	})
}
