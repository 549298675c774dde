package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	snapshotv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/snapshot/v1"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/errors"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/logger"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/redis"
)

// Store persists order book snapshots in Redis, keyed by trading pair.
type Store struct {
	pair        string
	logger      logger.Interface
	redisclient redis.Client
}

// NewSnapshotStore creates a snapshot store for the given pair.
func NewSnapshotStore(redisclient redis.Client, pair string, log logger.Interface) *Store {
	return &Store{
		pair:        pair,
		redisclient: redisclient,
		logger:      log,
	}
}

// Store serializes the snapshot and writes it to Redis.
func (s *Store) Store(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	s.logger.InfoContext(ctx, fmt.Sprintf("Storing snapshot for pair %s", s.pair), logger.Field{
		Key:   "pair",
		Value: s.pair,
	})

	buf, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "pair",
			Value: s.pair,
		})
		return errors.NewTracer("snapshot_marshal_error").Wrap(err)
	}

	if err := s.redisclient.Set(ctx, s.pair, buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "pair",
			Value: s.pair,
		})

		// A snapshot write is the only signal a dead connection gives us
		// here, so try to re-establish it and write once more.
		if !s.redisclient.Reconnect(ctx) {
			return errors.NewTracer("snapshot_store_error").Wrap(err)
		}
		if err := s.redisclient.Set(ctx, s.pair, buf, 0); err != nil {
			return errors.NewTracer("snapshot_store_error").Wrap(err)
		}
	}

	return nil
}

// LoadStore reads and deserializes the latest snapshot from Redis. Returns
// nil without error when no snapshot exists yet.
func (s *Store) LoadStore(ctx context.Context) (*snapshotv1.Snapshot, error) {
	data, err := s.redisclient.Get(ctx, s.pair)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "pair",
			Value: s.pair,
		}, logger.Field{
			Key:   "action",
			Value: "load snapshot",
		})
		return nil, errors.NewTracer("snapshot_load_error").Wrap(err)
	}

	if data == "" {
		s.logger.WarnContext(ctx, fmt.Sprintf("No snapshot found for pair %s", s.pair), logger.Field{
			Key:   "pair",
			Value: s.pair,
		})
		return nil, nil
	}

	var snapshot snapshotv1.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "pair",
			Value: s.pair,
		}, logger.Field{
			Key:   "action",
			Value: "unmarshal snapshot",
		})
		return nil, errors.NewTracer("snapshot_unmarshal_error").Wrap(err)
	}

	return &snapshot, nil
}
