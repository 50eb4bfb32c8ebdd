package content

import (
	"fmt"

	"go-chi-calculators/internal/llm"
)

const systemPrompt = `You write concise, accurate help pages for an online calculator website.
Answer with a single JSON object and nothing else, shaped exactly like:
{"content": "<markdown article>", "faqItems": [{"question": "...", "answer": "..."}]}
The article explains the concept, the formula with a worked example and common mistakes.
Use markdown headings (##) and lists, no HTML. Give 3 to 5 FAQ items with short answers.`

// Prompt builds the fixed chat prompt for topic.
func Prompt(topic string) []llm.Message {
	return []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("Topic: %s", topic)},
	}
}
