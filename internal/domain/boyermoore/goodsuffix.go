package boyermoore

// BuildGoodSuffixTable returns the good-suffix shifts for pattern, m+1 slots.
//
// Slot k covers a mismatch at pattern index k-1 after the last m-k bytes
// matched; slot 0 is the shift applied after a full match. Every slot ends up
// in [1, m] for a nonempty pattern.
//
// The table is filled in two passes over border positions, where border[i] is
// the start of the widest border of pattern[i:]:
//
//  1. Right to left, following the border chain on every mismatch. A slot
//     that is still zero when the chain passes through it receives j-i: the
//     matched suffix reoccurs further left behind a different byte.
//  2. Left to right, every slot still zero receives the start of the widest
//     border of the whole pattern, moving to the next narrower border once i
//     passes it. With no border at all this degenerates to m.
func BuildGoodSuffixTable(pattern []byte) []int {
	m := len(pattern)
	shift := make([]int, m+1)
	border := make([]int, m+1)

	i, j := m, m+1
	border[i] = j
	for i > 0 {
		for j <= m && pattern[i-1] != pattern[j-1] {
			if shift[j] == 0 {
				shift[j] = j - i
			}
			j = border[j]
		}
		i--
		j--
		border[i] = j
	}

	j = border[0]
	for i = 0; i <= m; i++ {
		if shift[i] == 0 {
			shift[i] = j
		}
		if i == j {
			j = border[j]
		}
	}
	return shift
}
