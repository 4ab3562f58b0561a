package vecmath

const (
	componentsPerVec = 3   // xyz
	half             = 0.5 // Center of a min/max pair
)
