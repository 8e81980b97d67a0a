package matcher

import "strings"

// PartialRatio scores how well the shorter string aligns with any part of the
// longer one, on a 0-100 scale. Each alignment is scored as a normalized Indel
// similarity; windows hanging off either edge of the longer string are included.
// Empty input scores 0.
func PartialRatio(a, b string) float64 {
	s1, s2 := []rune(a), []rune(b)
	if len(s1) > len(s2) {
		s1, s2 = s2, s1
	}
	if len(s1) == 0 {
		return 0
	}
	if strings.Contains(string(s2), string(s1)) {
		return 100
	}

	n := len(s1)
	best := 0.0
	consider := func(window []rune) bool {
		if score := ratio(s1, window); score > best {
			best = score
		}
		return best == 100
	}
	for i := 1; i < n; i++ {
		if consider(s2[:i]) {
			return best
		}
	}
	for i := 0; i+n <= len(s2); i++ {
		if consider(s2[i : i+n]) {
			return best
		}
	}
	for i := len(s2) - n + 1; i < len(s2); i++ {
		if consider(s2[i:]) {
			return best
		}
	}
	return best
}

// ratio is 100 * (1 - indel/(len(a)+len(b))), where the Indel distance only
// counts insertions and deletions: len(a)+len(b)-2*LCS.
func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 100 * float64(2*lcsLength(a, b)) / float64(total)
}

func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
