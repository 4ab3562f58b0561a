package buffer

const (
	minInitialCapacity = 16 // Smallest capacity allocated on first growth
	growthFactor       = 2  // Capacity multiplier on growth
)
