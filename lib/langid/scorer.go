package langid

// ngramWeights are per-order multipliers, longer n-grams carry more evidence
var ngramWeights = [maxNgramLength]float64{1.0, 1.0, 1.2, 1.4, 1.6}

// scoreWords returns weighted sum of log-probabilities of all n-grams in words.
// Higher (less negative) is more likely.
func scoreWords(m *NgramModel, words []string) float64 {
	var sums [maxNgramLength]float64
	for _, w := range words {
		eachNgram(w, func(n int, gram string) {
			lp, ok := m.logp[n-1][gram]
			if !ok {
				lp = m.floor[n-1]
			}
			sums[n-1] += lp
		})
	}
	total := 0.0
	for i, s := range sums {
		total += ngramWeights[i] * s
	}
	return total
}
