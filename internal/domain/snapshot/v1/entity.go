package snapshotv1

// Snapshot represents the resting state of the order book at a point in time,
// together with the counters needed to keep order ids monotonic after restore.
type Snapshot struct {
	OrderOffset  int64        `json:"orderOffset"`
	NextOrderID  uint64       `json:"nextOrderID"`
	Sequence     int64        `json:"sequence"`
	BookSnapshot BookSnapshot `json:"bookSnapshot"`
}

// BookSnapshot holds every resting order in the book. Terminal orders live in
// the history archive, not in snapshots.
type BookSnapshot struct {
	Orders []BookOrder `json:"orders"`
}

// BookOrder represents a single resting order in a snapshot.
type BookOrder struct {
	OrderID         uint64 `json:"orderID"`
	Owner           string `json:"owner"`
	Side            uint8  `json:"side"`
	Price           uint64 `json:"price"`
	OriginalAmount  uint64 `json:"originalAmount"`
	RemainingAmount uint64 `json:"remainingAmount"`
	Status          string `json:"status"`
	CreatedAt       int64  `json:"createdAt"`
}
