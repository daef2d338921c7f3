package render

// NaturalLess orders strings so that embedded unsigned integers compare
// numerically: "disk.size/2" sorts before "disk.size/10". Non-digit
// sections compare byte-wise. Strings that differ only in leading zeros
// within a number compare equal under this ordering, so callers that need
// a stable result should use a stable sort.
func NaturalLess(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			na, ni := digitRun(a, i)
			nb, nj := digitRun(b, j)
			if na != nb {
				if len(na) != len(nb) {
					return len(na) < len(nb)
				}
				return na < nb
			}
			i, j = ni, nj
			continue
		}
		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	return len(a)-i < len(b)-j
}

// digitRun returns the digit run starting at position i with leading zeros
// trimmed, and the position just past it.
func digitRun(s string, i int) (string, int) {
	end := i
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	run := s[i:end]
	trimmed := run
	for len(trimmed) > 1 && trimmed[0] == '0' {
		trimmed = trimmed[1:]
	}
	return trimmed, end
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
