package services

// CanonicalPair orders two user IDs so a connection is always stored and looked up
// as (low, high), whichever side initiated it.
func CanonicalPair(a, b uint) (low, high uint) {
	if a < b {
		return a, b
	}
	return b, a
}
