package services

import (
	"fmt"
	"strings"

	"regrag/index"
)

const answerTemplate = `You are an expert assistant for financial regulatory documents and policies.
Use the provided context from the regulatory document corpus to answer questions accurately and comprehensively.

Context from regulatory documents:
%s

Question: %s

Instructions:
1. Answer based primarily on the provided document context
2. If the context doesn't contain enough information, clearly state this
3. Cite specific document types when possible (Annual Report, Master Circular, FAQ)
4. Provide year information when available
5. Be precise and regulatory-focused in your responses
6. If asked about recent changes, focus on the most recent documents in the context

Answer:`

// BuildPrompt interpolates the instruction template with the retrieved
// passages and the raw question. Passages are concatenated in rank order with
// no cap on total length.
func BuildPrompt(results []index.Result, question string) string {
	contexts := make([]string, len(results))
	for i, r := range results {
		contexts[i] = r.Entry.Content
	}
	return fmt.Sprintf(answerTemplate, strings.Join(contexts, "\n\n"), question)
}
