package prompt

import (
	"fmt"
	"strings"
)

// Style selects the output shape of a summary.
type Style string

const (
	StyleBullet    Style = "bullet"
	StyleParagraph Style = "paragraph"
)

const (
	bulletInstruction    = "Summarize the following text into 3 simple and clear bullet points suitable for a general audience:"
	paragraphInstruction = "Summarize the following text in a single concise paragraph suitable for a general audience:"

	mergeBulletShape    = "three clear bullet points"
	mergeParagraphShape = "one concise paragraph"
)

// ParseStyle converts a user-supplied style string into a Style.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleBullet:
		return StyleBullet, nil
	case StyleParagraph:
		return StyleParagraph, nil
	default:
		return "", fmt.Errorf("unknown style %q (valid options: bullet, paragraph)", s)
	}
}

// Build returns the summarization prompt for the given text and style.
// The input text is appended verbatim after the instruction.
func Build(text string, style Style) string {
	instruction := bulletInstruction
	if style == StyleParagraph {
		instruction = paragraphInstruction
	}
	return instruction + "\n\n" + text
}

// BuildMerge returns a prompt asking the model to reconcile two candidate
// summaries of the same text into a single summary in the requested style.
func BuildMerge(a, b string, style Style) string {
	shape := mergeBulletShape
	if style == StyleParagraph {
		shape = mergeParagraphShape
	}

	var sb strings.Builder
	sb.WriteString("Below are two summaries of the same text, produced independently. ")
	sb.WriteString("Merge them into a single summary as ")
	sb.WriteString(shape)
	sb.WriteString(" for a general audience. ")
	sb.WriteString("Keep every important point that appears in either summary and do not add new information.\n\n")
	sb.WriteString("Summary 1:\n")
	sb.WriteString(a)
	sb.WriteString("\n\nSummary 2:\n")
	sb.WriteString(b)
	return sb.String()
}
