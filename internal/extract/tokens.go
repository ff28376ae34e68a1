package extract

import "strings"

// EstimateTokens approximates the model token count of text at about
// 1.33 tokens per whitespace-separated word.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return max(int(float64(words)*1.33), 1)
}
