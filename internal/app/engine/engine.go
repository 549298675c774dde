package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"

	eventpublisherv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/event-publisher/v1"
	historyv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/history/v1"
	orderreaderv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/order-reader/v1"
	orderbookv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/orderbook/v1"
	snapshotv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/snapshot/v1"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/config"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/logger"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/util"
)

// Engine is the main engine for processing order commands and managing the
// order book. All mutating book operations happen on the order processor
// goroutine, so commands are applied strictly in stream order.
type Engine struct {
	// Core components
	book          orderbookv1.Book
	orderReader   orderreaderv1.OrderReader
	snapshotStore snapshotv1.Store
	publisher     eventpublisherv1.EventPublisher
	archive       historyv1.Archive
	logger        *logger.Logger
	config        *config.Config

	// Offset state
	mu                 sync.RWMutex
	orderOffset        int64
	lastSnapshotOffset int64

	// Shutdown coordination
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Configuration
	snapshotInterval    time.Duration
	snapshotOffsetDelta int64

	// Match statistics
	totalMatches int64
	matchesMutex sync.RWMutex
}

// NewEngine creates a new instance of Engine with the provided dependencies.
func NewEngine(
	book orderbookv1.Book,
	orderReader orderreaderv1.OrderReader,
	snapshotStore snapshotv1.Store,
	publisher eventpublisherv1.EventPublisher,
	archive historyv1.Archive,
	logger *logger.Logger,
	config *config.Config,
) *Engine {
	return NewEngineWithOptions(book, orderReader, snapshotStore, publisher, archive, logger, config, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options.
func NewEngineWithOptions(
	book orderbookv1.Book,
	orderReader orderreaderv1.OrderReader,
	snapshotStore snapshotv1.Store,
	publisher eventpublisherv1.EventPublisher,
	archive historyv1.Archive,
	logger *logger.Logger,
	config *config.Config,
	options *Options,
) *Engine {
	e := &Engine{
		book:          book,
		orderReader:   orderReader,
		snapshotStore: snapshotStore,
		publisher:     publisher,
		archive:       archive,
		logger:        logger,
		config:        config,

		snapshotInterval:    options.SnapshotInterval,
		snapshotOffsetDelta: options.SnapshotOffsetDelta,
		orderOffset:         -1,
	}

	// Load snapshot during initialization
	if err := e.loadSnapshot(context.Background()); err != nil {
		e.logger.GetZap().Fatal("Failed to load snapshot", zapcore.Field{
			Key:       "error",
			Interface: err,
		})
	}

	return e
}

// Start initializes the engine and starts processing routines.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(2)
	go e.runOrderProcessor()
	go e.runSnapshotManager()

	e.logger.Info("Engine started", logger.Field{
		Key:   "pair",
		Value: e.config.Pair,
	})

	return nil
}

// Stop gracefully shuts down the engine.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	// Wait for goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Engine stopped gracefully")
		return nil
	case <-ctx.Done():
		e.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}
}

// runOrderProcessor combines command reading and processing in a single goroutine.
func (e *Engine) runOrderProcessor() {
	defer e.wg.Done()

	e.logger.Info("Starting order processor", logger.Field{
		Key:   "pair",
		Value: e.config.Pair,
	})

	// Resume after the last applied command
	currentOffset := e.getOrderOffset()
	if currentOffset > 0 {
		currentOffset++
	}

	if err := e.orderReader.SetOffset(currentOffset); err != nil {
		e.logger.GetZap().Fatal("Failed to set offset for order reader", zapcore.Field{
			Key:       "error",
			Interface: err,
		})
	}

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Order processor shutting down")
			e.orderReader.Close()
			return
		default:
			msg, request, err := e.orderReader.ReadMessage(e.ctx)
			if err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "read_order_message",
				})
				time.Sleep(100 * time.Millisecond)
				continue
			}

			if err := e.orderReader.CommitMessages(e.ctx, msg); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "commit_order_message",
				})
			}

			if err := e.processRequest(&request); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "process_order_request",
				})
				continue
			}

			e.setOrderOffset(msg.Offset)
		}
	}
}

// runSnapshotManager handles periodic snapshots.
func (e *Engine) runSnapshotManager() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.snapshotInterval)
	defer ticker.Stop()

	e.logger.Info("Starting snapshot manager")

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Snapshot manager shutting down")
			return
		case <-ticker.C:
			if e.shouldCreateSnapshot() {
				e.createAndStoreSnapshot()
			}
		}
	}
}

// processRequest applies a single command to the book. Admission failures are
// a normal outcome of untrusted input: they are logged with their code and do
// not stop the processor.
func (e *Engine) processRequest(request *orderbookv1.OrderRequest) error {
	// Every command gets its own request id, and the submitting owner rides
	// along as the actor for downstream logs.
	ctx := util.WithActorID(util.WithRequestID(e.ctx, ""), request.Owner)

	e.logger.DebugContext(ctx, "Processing request",
		logger.Field{Key: "offset", Value: request.Offset},
		logger.Field{Key: "owner", Value: request.Owner},
		logger.Field{Key: "type", Value: string(request.Type)},
	)

	switch request.Type {
	case orderbookv1.RequestTypeLimit:
		result, err := e.book.PlaceLimitOrder(ctx, request.Owner, request.Side, request.Price, request.Amount)
		if err != nil {
			return e.reportRejection(ctx, request, err)
		}
		e.emitPlacement(ctx, result)

	case orderbookv1.RequestTypeMarket:
		result, err := e.book.PlaceMarketOrder(ctx, request.Owner, request.Side, request.Amount)
		if err != nil {
			return e.reportRejection(ctx, request, err)
		}
		e.emitPlacement(ctx, result)

	case orderbookv1.RequestTypeCancel:
		// Capture the released amount before the book zeroes it.
		view, _ := e.book.GetOrder(request.OrderID)
		cancelled, err := e.book.CancelOrder(ctx, request.Owner, request.OrderID)
		if err != nil {
			return e.reportRejection(ctx, request, err)
		}
		if cancelled {
			e.publish(ctx, eventpublisherv1.CreateOrderCancelled(e.config.Pair, request.OrderID, view.Owner, view.RemainingAmount))
			e.archiveOrderByID(ctx, request.OrderID)
		}

	default:
		return fmt.Errorf("unknown request type %q at offset %d", request.Type, request.Offset)
	}

	return nil
}

// reportRejection downgrades coded admission errors to a warning and passes
// everything else through as a processing failure.
func (e *Engine) reportRejection(ctx context.Context, request *orderbookv1.OrderRequest, err error) error {
	if code, ok := orderbookv1.ErrorCode(err); ok {
		e.logger.WarnContext(ctx, "Request rejected",
			logger.Field{Key: "offset", Value: request.Offset},
			logger.Field{Key: "owner", Value: request.Owner},
			logger.Field{Key: "type", Value: string(request.Type)},
			logger.Field{Key: "code", Value: code},
			logger.Field{Key: "reason", Value: err.Error()},
		)
		return nil
	}
	return err
}

// emitPlacement publishes and archives the outcome of an accepted placement.
func (e *Engine) emitPlacement(ctx context.Context, result *orderbookv1.PlaceResult) {
	view, viewFound := e.book.GetOrder(result.OrderID)
	if viewFound {
		e.publish(ctx, eventpublisherv1.CreateOrderPlaced(e.config.Pair, view))
	}

	if len(result.Matches) == 0 {
		if viewFound {
			e.archiveOrder(ctx, view)
		}
		return
	}

	for _, match := range result.Matches {
		e.publish(ctx, eventpublisherv1.CreateOrderMatched(e.config.Pair, match))
		e.publish(ctx, eventpublisherv1.CreateTradeExecuted(e.config.Pair, match))

		// The counterparty's resting order changed too.
		makerID := match.BuyOrderID
		if makerID == result.OrderID {
			makerID = match.SellOrderID
		}
		e.archiveOrderByID(ctx, makerID)
	}

	// The taker's final state and its trades land atomically.
	if viewFound {
		e.archiveOrderWithTrades(ctx, view, result.Matches)
	} else {
		e.archiveTrades(ctx, result.Matches)
	}
	e.logMatches(result.Matches)
}

// publish sends an event to the publisher. Publishing is best effort and
// never affects book state.
func (e *Engine) publish(ctx context.Context, event *eventpublisherv1.Event) {
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "publish_event",
		}, logger.Field{
			Key:   "eventType",
			Value: string(event.Type),
		})
	}
}

func (e *Engine) archiveOrderByID(ctx context.Context, orderID uint64) {
	if view, ok := e.book.GetOrder(orderID); ok {
		e.archiveOrder(ctx, view)
	}
}

func (e *Engine) archiveOrder(ctx context.Context, view orderbookv1.OrderView) {
	if err := e.archive.StoreOrder(ctx, e.orderRecord(view)); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "archive_order",
		}, logger.Field{
			Key:   "orderID",
			Value: view.ID,
		})
	}
}

func (e *Engine) archiveOrderWithTrades(ctx context.Context, view orderbookv1.OrderView, matches []orderbookv1.Match) {
	if err := e.archive.StoreOrderWithTrades(ctx, e.orderRecord(view), e.tradeRecords(matches)); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "archive_order_with_trades",
		}, logger.Field{
			Key:   "orderID",
			Value: view.ID,
		})
	}
}

func (e *Engine) archiveTrades(ctx context.Context, matches []orderbookv1.Match) {
	if err := e.archive.StoreTrades(ctx, e.tradeRecords(matches)); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "archive_trades",
		})
	}
}

func (e *Engine) orderRecord(view orderbookv1.OrderView) *historyv1.OrderRecord {
	return &historyv1.OrderRecord{
		OrderID:         view.ID,
		Pair:            e.config.Pair,
		Owner:           view.Owner,
		Side:            view.Side.String(),
		Kind:            string(view.Kind),
		Price:           view.Price,
		OriginalAmount:  view.OriginalAmount,
		RemainingAmount: view.RemainingAmount,
		Status:          string(view.Status),
		Timestamp:       time.Now().UTC(),
	}
}

func (e *Engine) tradeRecords(matches []orderbookv1.Match) []*historyv1.TradeRecord {
	records := make([]*historyv1.TradeRecord, 0, len(matches))
	for _, match := range matches {
		records = append(records, &historyv1.TradeRecord{
			TradeID:     match.TradeID,
			Pair:        e.config.Pair,
			BuyOrderID:  match.BuyOrderID,
			SellOrderID: match.SellOrderID,
			Buyer:       match.Buyer,
			Seller:      match.Seller,
			Amount:      match.Amount,
			Price:       match.Price,
			Timestamp:   time.Unix(0, match.Timestamp).UTC(),
		})
	}
	return records
}

// logMatches logs the matches and updates statistics.
func (e *Engine) logMatches(matches []orderbookv1.Match) {
	e.matchesMutex.Lock()
	e.totalMatches += int64(len(matches))
	currentTotal := e.totalMatches
	e.matchesMutex.Unlock()

	e.logger.Info("Matches executed",
		logger.Field{Key: "matchCount", Value: len(matches)},
		logger.Field{Key: "totalMatches", Value: currentTotal},
	)

	for i, match := range matches {
		e.logger.Info("Trade executed",
			logger.Field{Key: "matchIndex", Value: i + 1},
			logger.Field{Key: "tradeID", Value: match.TradeID},
			logger.Field{Key: "price", Value: match.Price},
			logger.Field{Key: "amount", Value: match.Amount},
			logger.Field{Key: "buyer", Value: match.Buyer},
			logger.Field{Key: "seller", Value: match.Seller},
			logger.Field{Key: "buyOrderID", Value: match.BuyOrderID},
			logger.Field{Key: "sellOrderID", Value: match.SellOrderID},
		)
	}
}

// shouldCreateSnapshot checks if a snapshot should be created.
func (e *Engine) shouldCreateSnapshot() bool {
	e.mu.RLock()
	currentOffset := e.orderOffset
	lastSnapshotOffset := e.lastSnapshotOffset
	e.mu.RUnlock()

	if currentOffset <= 0 {
		return false
	}

	delta := currentOffset - lastSnapshotOffset
	return delta >= e.snapshotOffsetDelta
}

// createAndStoreSnapshot creates and stores a snapshot.
func (e *Engine) createAndStoreSnapshot() {
	currentOffset := e.getOrderOffset()

	e.logger.Info("Creating snapshot", logger.Field{
		Key:   "currentOffset",
		Value: currentOffset,
	})

	snapshot := e.book.CreateSnapshot()
	snapshot.OrderOffset = currentOffset

	if err := e.snapshotStore.Store(e.ctx, snapshot); err != nil {
		e.logger.ErrorContext(e.ctx, err, logger.Field{
			Key:   "action",
			Value: "store_snapshot",
		})
	} else {
		e.setLastSnapshotOffset(currentOffset)
		e.logger.Info("Snapshot stored successfully", logger.Field{
			Key:   "pair",
			Value: e.config.Pair,
		}, logger.Field{
			Key:   "offset",
			Value: currentOffset,
		})
	}
}

// Thread-safe getters and setters
func (e *Engine) getOrderOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.orderOffset
}

func (e *Engine) setOrderOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orderOffset = offset
}

func (e *Engine) getLastSnapshotOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastSnapshotOffset
}

func (e *Engine) setLastSnapshotOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSnapshotOffset = offset
}

// loadSnapshot loads and restores the book from the latest snapshot.
func (e *Engine) loadSnapshot(ctx context.Context) error {
	snapshot, err := e.snapshotStore.LoadStore(ctx)
	if err != nil {
		return err
	}

	if snapshot != nil {
		if err := e.book.RestoreBook(snapshot); err != nil {
			return err
		}
		e.mu.Lock()
		e.orderOffset = snapshot.OrderOffset
		e.lastSnapshotOffset = snapshot.OrderOffset
		e.mu.Unlock()

		e.logger.Info("Book restored from snapshot", logger.Field{
			Key:   "orderOffset",
			Value: snapshot.OrderOffset,
		})
	}

	return nil
}

// GetOrderOffset returns the current order offset.
func (e *Engine) GetOrderOffset() int64 {
	return e.getOrderOffset()
}

// GetLastSnapshotOffset returns the last snapshot offset.
func (e *Engine) GetLastSnapshotOffset() int64 {
	return e.getLastSnapshotOffset()
}

// GetTotalMatches returns the total number of matches processed.
func (e *Engine) GetTotalMatches() int64 {
	e.matchesMutex.RLock()
	defer e.matchesMutex.RUnlock()
	return e.totalMatches
}
