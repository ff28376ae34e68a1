package extract

import (
	"strings"
	"unicode/utf8"
)

// CharLimit caps the document text submitted to the capability, in characters.
const CharLimit = 400000

// TruncationMarker follows text cut at CharLimit.
const TruncationMarker = "... [TRUNCATED]"

const AtomizationInstructions = `You are a Senior Legal Systems Architect. Deconstruct this Master Contract into a HIGH-FIDELITY "Symbolic Skeleton" of 60 to 100 nodes.
The skeleton must be granular enough to reconstruct the original document from it.

RULES:
1. RECURSIVE ATOMIZATION: Map the document sequentially, in document order. Every sub-clause becomes its own node.
2. NO MERGING: One node = one specific thought or rule. Never combine unrelated clauses into one node.
3. PARAMETERIZATION: Replace every variable value (dates, currency amounts, party names, addresses, durations) with a {{VARIABLE_NAME}} placeholder.
4. CATEGORIZATION: STRUCTURE (headings and section markers), LOGIC (variables, conditions, obligations with parameters), BOILERPLATE (fixed text).
5. JSON INTEGRITY: Output must be valid JSON. Escape all double quotes inside strings. Do not include raw control characters such as literal newlines or tabs inside strings.

OUTPUT FORMAT:
Return a JSON array of objects. Each object has:
- "type": "STRUCTURE", "LOGIC" or "BOILERPLATE".
- "title": a precise, uppercase section code.
- "content": the exact text, with {{PLACEHOLDERS}}.
- "reasoning": the legal significance of this atom.`

// Prompt is one atomization request.
type Prompt struct {
	Instructions string
	Document     string
}

// String renders the prompt as a single text submission.
func (p Prompt) String() string {
	return p.Instructions + "\n\nCONTRACT CONTENT:\n" + p.Document
}

// BuildPrompt applies the size guardrail and pairs the document with the
// atomization instructions.
func BuildPrompt(document string) (Prompt, bool) {
	doc, truncated := ApplyGuardrail(document, CharLimit)
	return Prompt{Instructions: AtomizationInstructions, Document: doc}, truncated
}

// ApplyGuardrail keeps the first limit characters of text and appends
// TruncationMarker when anything was cut.
func ApplyGuardrail(text string, limit int) (string, bool) {
	if len(text) <= limit || utf8.RuneCountInString(text) <= limit {
		return text, false
	}
	n := 0
	for i := range text {
		if n == limit {
			var sb strings.Builder
			sb.Grow(i + len(TruncationMarker))
			sb.WriteString(text[:i])
			sb.WriteString(TruncationMarker)
			return sb.String(), true
		}
		n++
	}
	return text, false
}
