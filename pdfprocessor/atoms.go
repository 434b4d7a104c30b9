package pdfprocessor

// EstimateTokenCount provides a rough estimate of tokens in a text, at an
// average of 4 characters per token. It is only used for log lines and
// progress messages; budgets are enforced by Truncator with the model's
// real tokenizer.
//
// Example:
//
//	tokens := EstimateTokenCount("Hello, world!") // Returns 3
//	tokens := EstimateTokenCount("")              // Returns 0
func EstimateTokenCount(text string) int {
	if len(text) == 0 {
		return 0
	}
	return len(text) / 4
}
