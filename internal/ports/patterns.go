package ports

// Verifier finds every occurrence of a single pattern in a text using an
// algorithm independent of the Boyer-Moore core. It backs --verify and
// cross-checks in tests: both must agree on the full match set, overlaps
// included.
type Verifier interface {
	// Occurrences returns the ascending start offsets of every occurrence of
	// pattern in text. Returns nil for an empty pattern or no match.
	Occurrences(text, pattern []byte) []int
}
