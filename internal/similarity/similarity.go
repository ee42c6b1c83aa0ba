package similarity

import "strings"

// Method names the algorithm that produced a score.
type Method string

const (
	MethodEdit     Method = "edit_distance"
	MethodPrefix   Method = "prefix_weighted"
	MethodTokenSet Method = "token_set"
)

// Score is a similarity value in [0,100] plus the method that produced
// it. 100 iff the normalized inputs are identical; symmetric for every
// method in this package.
type Score struct {
	Value  float64 `json:"value"`
	Method Method  `json:"method"`
}

// prefixBonusLimit caps the shared-prefix bonus at the first 4 runes,
// mirroring the Jaro-Winkler prefix scale for proper-noun matching.
const (
	prefixBonusLimit = 4
	prefixBonusScale = 0.1
)

// Levenshtein computes the classic edit distance between two strings,
// counted in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// EditScore converts edit distance to a 0-100 similarity:
// (maxLen - distance) / maxLen * 100. Two empty strings score 100.
func EditScore(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	maxLen := max(la, lb)
	if maxLen == 0 {
		return 100
	}
	return float64(maxLen-Levenshtein(a, b)) / float64(maxLen) * 100
}

// PrefixScore is EditScore boosted by a shared-prefix bonus bounded to
// the first 4 runes. Rewards proper-noun-like matches where the leading
// characters carry most of the identity signal.
func PrefixScore(a, b string) float64 {
	base := EditScore(a, b)
	if base >= 100 {
		return 100
	}

	ra, rb := []rune(a), []rune(b)
	prefix := 0
	for prefix < len(ra) && prefix < len(rb) && prefix < prefixBonusLimit {
		if ra[prefix] != rb[prefix] {
			break
		}
		prefix++
	}
	return base + float64(prefix)*prefixBonusScale*(100-base)
}

// TokenSetScore tokenizes on whitespace into sets and returns
// |intersection| / |union| * 100. Order-invariant: "123 main st" and
// "main st 123" score 100. Two empty strings score 100, one empty 0.
func TokenSetScore(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 100
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	inter := 0
	for tok := range ta {
		if tb[tok] {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union) * 100
}

func tokenSet(s string) map[string]bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// Composite normalizes both inputs, runs all three methods, and returns
// the maximum score tagged with its method. Ties resolve to the earliest
// method in the fixed order edit, prefix, token-set.
func Composite(a, b string) Score {
	na, nb := Normalize(a), Normalize(b)

	best := Score{Value: EditScore(na, nb), Method: MethodEdit}
	if v := PrefixScore(na, nb); v > best.Value {
		best = Score{Value: v, Method: MethodPrefix}
	}
	if v := TokenSetScore(na, nb); v > best.Value {
		best = Score{Value: v, Method: MethodTokenSet}
	}
	return best
}

// Match reports whether the composite score meets the threshold.
func Match(a, b string, threshold float64) bool {
	return Composite(a, b).Value >= threshold
}
