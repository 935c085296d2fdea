package match

// sequenceRatio measures how similar two record-ID sequences are, as twice
// the total length of their matching blocks over the combined length
// (Ratcliff/Obershelp). 1.0 means identical sequences, 0.0 means nothing
// in common. Blank entries participate like any other element, so a
// predicted series with the right records in the right years but spurious
// blanks still loses score.
func sequenceRatio(a, b []string) float64 {
	if len(a)+len(b) == 0 {
		return 1.0
	}
	return 2.0 * float64(matchingTotal(a, b)) / float64(len(a)+len(b))
}

// matchingTotal sums the lengths of the matching blocks: the longest common
// contiguous run, then recursively the pieces to its left and right.
func matchingTotal(a, b []string) int {
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingTotal(a[:ai], b[:bi]) +
		matchingTotal(a[ai+size:], b[bi+size:])
}

// longestMatch finds the longest contiguous run common to a and b. Ties go
// to the run starting earliest in a, then earliest in b, which keeps the
// ratio deterministic.
func longestMatch(a, b []string) (ai, bi, size int) {
	// lengths[j] is the length of the common suffix ending at a[i-1], b[j-1]
	// for the current i; rebuilt row by row.
	lengths := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prevDiag := 0
		for j := 1; j <= len(b); j++ {
			tmp := lengths[j]
			if a[i-1] == b[j-1] {
				lengths[j] = prevDiag + 1
				if lengths[j] > size {
					size = lengths[j]
					ai = i - size
					bi = j - size
				}
			} else {
				lengths[j] = 0
			}
			prevDiag = tmp
		}
	}
	return ai, bi, size
}
