package orderbookv1

// Levels represents a slice of price levels.
type Levels []*PriceLevel

// ByBestAsk sorts Levels by the best ask price (lowest first).
type ByBestAsk struct {
	Levels
}

func (a ByBestAsk) Len() int {
	return len(a.Levels)
}

func (a ByBestAsk) Less(i, j int) bool {
	return a.Levels[i].Price < a.Levels[j].Price
}

func (a ByBestAsk) Swap(i, j int) {
	a.Levels[i], a.Levels[j] = a.Levels[j], a.Levels[i]
}

// ByBestBid sorts Levels by the best bid price (highest first).
type ByBestBid struct {
	Levels
}

func (b ByBestBid) Len() int {
	return len(b.Levels)
}

func (b ByBestBid) Less(i, j int) bool {
	return b.Levels[i].Price > b.Levels[j].Price
}

func (b ByBestBid) Swap(i, j int) {
	b.Levels[i], b.Levels[j] = b.Levels[j], b.Levels[i]
}

// Orders is a slice of orders sortable by time priority.
type Orders []*Order

func (o Orders) Len() int           { return len(o) }
func (o Orders) Swap(i, j int)      { o[i], o[j] = o[j], o[i] }
func (o Orders) Less(i, j int) bool { return o[i].CreatedAt < o[j].CreatedAt }
