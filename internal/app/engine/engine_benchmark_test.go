package engine

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"

	eventpublishermock "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/event-publisher/v1/mock"
	historymock "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/history/v1/mock"
	orderreadermock "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/order-reader/v1/mock"
	orderbookv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/orderbook/v1"
	snapshotmock "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/snapshot/v1/mock"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/usecase/ledger"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/usecase/orderbook"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/config"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/logger"
)

func setupBenchmarkEngine(b *testing.B) *Engine {
	ctrl := gomock.NewController(b)

	mockOrderReader := orderreadermock.NewMockOrderReader(ctrl)
	mockSnapshotStore := snapshotmock.NewMockStore(ctrl)
	mockPublisher := eventpublishermock.NewMockEventPublisher(ctrl)
	mockArchive := historymock.NewMockArchive(ctrl)

	log, err := logger.NewLogger()
	if err != nil {
		b.Fatal(err)
	}

	settlement := ledger.NewInMemoryWithOpening(log, 1_000_000_000_000_000, 1_000_000_000_000_000_000)
	book := orderbook.NewBook(settlement, log)

	mockSnapshotStore.EXPECT().
		LoadStore(gomock.Any()).
		Return(nil, nil).
		Times(1)

	mockPublisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	mockArchive.EXPECT().
		StoreOrder(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	mockArchive.EXPECT().
		StoreTrades(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	mockArchive.EXPECT().
		StoreOrderWithTrades(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	engine := NewEngine(book, mockOrderReader, mockSnapshotStore, mockPublisher, mockArchive, log, &config.Config{
		Pair: "STX-USDA",
	})
	engine.ctx = context.Background()

	return engine
}

func BenchmarkEngine_ProcessLimitOrders(b *testing.B) {
	engine := setupBenchmarkEngine(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		side := orderbookv1.SideBuy
		if i%2 == 0 {
			side = orderbookv1.SideSell
		}
		_ = engine.processRequest(&orderbookv1.OrderRequest{
			Type:   orderbookv1.RequestTypeLimit,
			Owner:  "bench",
			Side:   side,
			Price:  1_500_000 + uint64(i%100)*1_000,
			Amount: 100,
			Offset: int64(i),
		})
	}
}

func BenchmarkEngine_ProcessMarketOrders(b *testing.B) {
	engine := setupBenchmarkEngine(b)

	// Deep resting liquidity so every market order has something to hit
	for i := 0; i < b.N; i++ {
		_ = engine.processRequest(&orderbookv1.OrderRequest{
			Type:   orderbookv1.RequestTypeLimit,
			Owner:  "maker",
			Side:   orderbookv1.SideSell,
			Price:  1_500_000,
			Amount: 100,
			Offset: int64(i),
		})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = engine.processRequest(&orderbookv1.OrderRequest{
			Type:   orderbookv1.RequestTypeMarket,
			Owner:  "taker",
			Side:   orderbookv1.SideBuy,
			Amount: 100,
			Offset: int64(b.N + i),
		})
	}
}
