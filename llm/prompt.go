package llm

import (
	"fmt"
	"strings"
)

// DefaultSystemInstructions frames the generator as a grounded
// assistant that only answers from the supplied context.
const DefaultSystemInstructions = `You are a helpful assistant. Answer the user's question using only the provided context. If the context does not contain the answer, say so instead of guessing.`

// BuildPrompt combines assembled context and the user question into the
// generation prompt. The context content already carries per-passage
// source attribution headers.
func BuildPrompt(contextContent string, query string) string {
	if strings.TrimSpace(contextContent) == "" {
		return fmt.Sprintf("Question: %s\n\nAnswer:", query)
	}
	return fmt.Sprintf("%s\nQuestion: %s\n\nAnswer:", contextContent, query)
}
