package sorting

const (
	// DefaultParallelThreshold is the table size at which StrategyAuto goes parallel.
	DefaultParallelThreshold = 1 << 15

	// minChunkSize keeps per-goroutine runs large enough to amortize scheduling.
	minChunkSize = 1 << 12
)
