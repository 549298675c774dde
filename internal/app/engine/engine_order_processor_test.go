package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	orderbookv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/orderbook/v1"
)

func TestEngine_RunOrderProcessor(t *testing.T) {
	testCases := []struct {
		name            string
		setupMocks      func(*testFixture, context.CancelFunc)
		expectedOffset  int64
		expectedMatches int64
		checkBook       func(*testing.T, *testFixture)
	}{
		{
			name: "process single limit order",
			setupMocks: func(f *testFixture, cancel context.CancelFunc) {
				f.mockSnapshotStore.EXPECT().
					LoadStore(gomock.Any()).
					Return(nil, nil).
					Times(1)

				f.mockOrderReader.EXPECT().
					SetOffset(int64(-1)).
					Return(nil).
					Times(1)

				msg := kafka.Message{Offset: 1}
				request := orderbookv1.OrderRequest{
					Type:   orderbookv1.RequestTypeLimit,
					Owner:  "alice",
					Side:   orderbookv1.SideBuy,
					Price:  1_500_000,
					Amount: 100,
					Offset: 1,
				}

				f.mockOrderReader.EXPECT().
					ReadMessage(gomock.Any()).
					Return(msg, request, nil).
					Times(1)

				f.mockOrderReader.EXPECT().
					CommitMessages(gomock.Any(), msg).
					Return(nil).
					Times(1)

				f.mockPublisher.EXPECT().
					Publish(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				f.mockArchive.EXPECT().
					StoreOrder(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				// Next read blocks until shutdown
				f.mockOrderReader.EXPECT().
					ReadMessage(gomock.Any()).
					DoAndReturn(func(ctx context.Context) (kafka.Message, orderbookv1.OrderRequest, error) {
						<-ctx.Done()
						return kafka.Message{}, orderbookv1.OrderRequest{}, ctx.Err()
					}).
					AnyTimes()

				f.mockOrderReader.EXPECT().
					Close().
					Times(1)

				go func() {
					time.Sleep(50 * time.Millisecond)
					cancel()
				}()
			},
			expectedOffset:  1,
			expectedMatches: 0,
			checkBook: func(t *testing.T, f *testFixture) {
				view, found := f.book.GetOrder(1)
				assert.True(t, found)
				assert.Equal(t, orderbookv1.StatusOpen, view.Status)
			},
		},
		{
			name: "read errors back off and keep the loop alive",
			setupMocks: func(f *testFixture, cancel context.CancelFunc) {
				f.mockSnapshotStore.EXPECT().
					LoadStore(gomock.Any()).
					Return(nil, nil).
					Times(1)

				f.mockOrderReader.EXPECT().
					SetOffset(int64(-1)).
					Return(nil).
					Times(1)

				f.mockOrderReader.EXPECT().
					ReadMessage(gomock.Any()).
					Return(kafka.Message{}, orderbookv1.OrderRequest{}, errors.New("broker unavailable")).
					MinTimes(1)

				f.mockOrderReader.EXPECT().
					Close().
					Times(1)

				go func() {
					time.Sleep(150 * time.Millisecond)
					cancel()
				}()
			},
			expectedOffset:  -1,
			expectedMatches: 0,
			checkBook:       func(t *testing.T, f *testFixture) {},
		},
		{
			name: "limit then market order produce a match",
			setupMocks: func(f *testFixture, cancel context.CancelFunc) {
				f.mockSnapshotStore.EXPECT().
					LoadStore(gomock.Any()).
					Return(nil, nil).
					Times(1)

				f.mockOrderReader.EXPECT().
					SetOffset(int64(-1)).
					Return(nil).
					Times(1)

				msg1 := kafka.Message{Offset: 1}
				request1 := orderbookv1.OrderRequest{
					Type:   orderbookv1.RequestTypeLimit,
					Owner:  "seller",
					Side:   orderbookv1.SideSell,
					Price:  1_400_000,
					Amount: 100,
					Offset: 1,
				}
				msg2 := kafka.Message{Offset: 2}
				request2 := orderbookv1.OrderRequest{
					Type:   orderbookv1.RequestTypeMarket,
					Owner:  "buyer",
					Side:   orderbookv1.SideBuy,
					Amount: 40,
					Offset: 2,
				}

				callCount := 0
				f.mockOrderReader.EXPECT().
					ReadMessage(gomock.Any()).
					DoAndReturn(func(ctx context.Context) (kafka.Message, orderbookv1.OrderRequest, error) {
						callCount++
						switch callCount {
						case 1:
							return msg1, request1, nil
						case 2:
							return msg2, request2, nil
						default:
							<-ctx.Done()
							return kafka.Message{}, orderbookv1.OrderRequest{}, ctx.Err()
						}
					}).
					AnyTimes()

				f.mockOrderReader.EXPECT().
					CommitMessages(gomock.Any(), gomock.Any()).
					Return(nil).
					Times(2)

				f.mockPublisher.EXPECT().
					Publish(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				f.mockArchive.EXPECT().
					StoreOrder(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				f.mockArchive.EXPECT().
					StoreOrderWithTrades(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					Times(1)

				f.mockOrderReader.EXPECT().
					Close().
					Times(1)

				go func() {
					time.Sleep(100 * time.Millisecond)
					cancel()
				}()
			},
			expectedOffset:  2,
			expectedMatches: 1,
			checkBook: func(t *testing.T, f *testFixture) {
				maker, found := f.book.GetOrder(1)
				assert.True(t, found)
				assert.Equal(t, orderbookv1.StatusPartiallyFilled, maker.Status)
				assert.Equal(t, uint64(60), maker.RemainingAmount)

				taker, found := f.book.GetOrder(2)
				assert.True(t, found)
				assert.Equal(t, orderbookv1.StatusFilled, taker.Status)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fixture := setupTestFixture(t)
			defer fixture.teardown()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			tc.setupMocks(fixture, cancel)

			engine := NewEngine(
				fixture.book,
				fixture.mockOrderReader,
				fixture.mockSnapshotStore,
				fixture.mockPublisher,
				fixture.mockArchive,
				fixture.logger,
				fixture.config,
			)
			engine.ctx, engine.cancel = context.WithCancel(ctx)

			engine.wg.Add(1)
			go engine.runOrderProcessor()

			// Propagate outer cancellation to the engine context
			go func() {
				<-ctx.Done()
				engine.cancel()
			}()

			engine.wg.Wait()

			assert.Equal(t, tc.expectedOffset, engine.GetOrderOffset())
			assert.Equal(t, tc.expectedMatches, engine.GetTotalMatches())
			tc.checkBook(t, fixture)
		})
	}
}
