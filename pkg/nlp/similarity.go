package nlp

// TokenOverlap scores how many unique tokens two texts share, divided by the
// size of the larger token set.
func TokenOverlap(a, b string) float64 {
	return tokenOverlap(Tokens(Normalize(a)), Tokens(Normalize(b)))
}

func tokenOverlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	hit := 0
	for token := range a {
		if _, ok := b[token]; ok {
			hit++
		}
	}

	return float64(hit) / float64(max(len(a), len(b)))
}

// EditSimilarity converts the Levenshtein distance between the normalized
// texts into a ratio in [0,1]. Two empty texts are identical.
func EditSimilarity(a, b string) float64 {
	return editSimilarity([]rune(Normalize(a)), []rune(Normalize(b)))
}

func editSimilarity(a, b []rune) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}

	maxLen := max(len(a), len(b), 1)
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

// Levenshtein returns the edit distance between a and b counted in runes.
func Levenshtein(a, b string) int {
	return levenshtein([]rune(a), []rune(b))
}

func levenshtein(a, b []rune) int {
	// keep the row on the shorter side
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			next := min(row[j]+1, row[j-1]+1, diag+cost)
			diag = row[j]
			row[j] = next
		}
	}

	return row[len(b)]
}
