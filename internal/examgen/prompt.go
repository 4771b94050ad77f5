package examgen

import (
	"fmt"
	"strings"

	"github.com/talas-app/talas/internal/exam"
)

const systemPrompt = `You are a teacher writing a review exam from a student's study material.

Rules:
- Ask only about facts, terms and ideas that appear in the provided text.
- Return a JSON array of question objects and nothing else. No prose, no Markdown fences.
- Produce exactly the number of questions requested, with exactly the requested count of each type.
- Number the questions with "id" starting at 1 and increasing by 1.
- Use only these type tags: "multiple-choice", "identification", "fill-in-the-blanks".
- Multiple-choice questions carry exactly 4 "options"; "correctAnswer" must be copied verbatim from one option.
- Identification questions ask for a single term, name or short phrase; omit "options".
- Fill-in-the-blanks questions are a sentence with the missing part written as ____; omit "options".
- Keep each correctAnswer short so it can be checked by exact comparison.`

// buildUserMessage constructs the user message from the source text and the
// requested exam shape. text must already be truncated.
func buildUserMessage(text string, cfg exam.Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate an exam with %d items.\n", cfg.TotalItems)
	b.WriteString("Distribution:\n")
	for _, t := range exam.Types {
		fmt.Fprintf(&b, "- %d %s\n", cfg.Distribution.Count(t), t.Label())
	}

	b.WriteString("\nEach item has the keys: id, type, question, options (multiple-choice only), correctAnswer.\n")

	b.WriteString("\nText content:\n")
	b.WriteString(text)

	return b.String()
}

// truncateRunes returns the longest prefix of s holding at most n characters.
// n <= 0 disables truncation.
func truncateRunes(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
