package boyermoore

// AlphabetSize is the number of distinct byte symbols a table has to cover.
const AlphabetSize = 256

// absent is stored for bytes that never occur in the pattern. It sits one below
// the first valid index, so j-absent moves the pattern past the bad character.
const absent = -1

// BadCharTable records, for every byte, the rightmost index at which it
// occurs in the pattern.
type BadCharTable struct {
	last [AlphabetSize]int
}

// BadCharEntry is one present symbol of a BadCharTable.
type BadCharEntry struct {
	Symbol byte `json:"symbol"`
	Index  int  `json:"index"`
}

// BuildBadCharTable scans pattern left to right; a repeated byte overwrites
// its earlier index, so the rightmost occurrence wins. An empty pattern
// yields a table where every byte is absent.
func BuildBadCharTable(pattern []byte) *BadCharTable {
	t := &BadCharTable{}
	for i := range t.last {
		t.last[i] = absent
	}
	for i, b := range pattern {
		t.last[b] = i
	}
	return t
}

// Lookup returns the rightmost index of b and whether b occurs at all.
func (t *BadCharTable) Lookup(b byte) (int, bool) {
	i := t.last[b]
	return i, i != absent
}

// Shift returns the bad-character shift for a mismatch at pattern index j
// against text byte b: max(1, j - last(b)), with an absent byte counting as -1.
func (t *BadCharTable) Shift(j int, b byte) int {
	last, ok := t.Lookup(b)
	if !ok {
		return j - absent
	}
	if s := j - last; s > 1 {
		return s
	}
	return 1
}

// Entries lists the bytes present in the pattern in ascending byte order.
func (t *BadCharTable) Entries() []BadCharEntry {
	var out []BadCharEntry
	for b, i := range t.last {
		if i != absent {
			out = append(out, BadCharEntry{Symbol: byte(b), Index: i})
		}
	}
	return out
}
