// Package prompt shapes conversation history and instructions into the form
// the conversational model endpoint accepts.
package prompt

import "strings"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one stored message of a conversation, oldest first.
type Turn struct {
	Role Role
	Text string
}

// Message is one entry of the outgoing sequence.
type Message struct {
	Role Role
	Text string
}

const (
	blankPlaceholder = "."
	mergeSeparator   = "\n\n"
)

// Normalize turns history plus the new user text into a sequence that starts
// with a user entry, strictly alternates roles and has no empty entries.
// Same-role neighbours are merged oldest first.
func Normalize(history []Turn, newUserText string) []Message {
	out := make([]Message, 0, len(history)+1)
	for _, t := range history {
		text := t.Text
		if strings.TrimSpace(text) == "" {
			text = blankPlaceholder
		}
		out = appendMerged(out, t.Role, text)
	}
	out = appendMerged(out, RoleUser, newUserText)

	start := 0
	for start < len(out) && out[start].Role == RoleAssistant {
		start++
	}
	out = out[start:]
	if len(out) == 0 {
		return []Message{{Role: RoleUser, Text: newUserText}}
	}
	return out
}

func appendMerged(out []Message, role Role, text string) []Message {
	if n := len(out); n > 0 && out[n-1].Role == role {
		out[n-1].Text += mergeSeparator + text
		return out
	}
	return append(out, Message{Role: role, Text: text})
}
