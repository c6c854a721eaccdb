package prompt

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	u := func(s string) Turn { return Turn{Role: RoleUser, Text: s} }
	a := func(s string) Turn { return Turn{Role: RoleAssistant, Text: s} }
	mu := func(s string) Message { return Message{Role: RoleUser, Text: s} }
	ma := func(s string) Message { return Message{Role: RoleAssistant, Text: s} }

	cases := []struct {
		name    string
		history []Turn
		text    string
		want    []Message
	}{
		{
			name: "empty history",
			text: "hi",
			want: []Message{mu("hi")},
		},
		{
			name:    "well formed history gets one new entry",
			history: []Turn{u("a"), a("b"), u("c"), a("d")},
			text:    "e",
			want:    []Message{mu("a"), ma("b"), mu("c"), ma("d"), mu("e")},
		},
		{
			name:    "consecutive users merge before new text",
			history: []Turn{u("a"), u("b")},
			text:    "c",
			want:    []Message{mu("a\n\nb\n\nc")},
		},
		{
			name:    "consecutive assistants merge oldest first",
			history: []Turn{u("q"), a("x"), a("y")},
			text:    "z",
			want:    []Message{mu("q"), ma("x\n\ny"), mu("z")},
		},
		{
			name:    "leading assistant stripped",
			history: []Turn{a("x"), u("y")},
			text:    "z",
			want:    []Message{mu("y\n\nz")},
		},
		{
			name:    "leading assistant then alternating",
			history: []Turn{a("x"), u("y"), a("w")},
			text:    "z",
			want:    []Message{mu("y"), ma("w"), mu("z")},
		},
		{
			name:    "assistant only history",
			history: []Turn{a("x")},
			text:    "z",
			want:    []Message{mu("z")},
		},
		{
			name:    "blank entries become placeholder",
			history: []Turn{u("  "), a("")},
			text:    "z",
			want:    []Message{mu("."), ma("."), mu("z")},
		},
		{
			name:    "blank merged into neighbour",
			history: []Turn{u("a"), u("\n")},
			text:    "b",
			want:    []Message{mu("a\n\n.\n\nb")},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.history, tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("want=%q got=%q", tc.want, got)
			}
		})
	}
}

func TestNormalizeOutputAlternates(t *testing.T) {
	history := []Turn{
		{Role: RoleAssistant, Text: "a"},
		{Role: RoleAssistant, Text: "b"},
		{Role: RoleUser, Text: ""},
		{Role: RoleUser, Text: "c"},
		{Role: RoleAssistant, Text: "d"},
		{Role: RoleUser, Text: "e"},
	}
	got := Normalize(history, "f")
	if got[0].Role != RoleUser || got[len(got)-1].Role != RoleUser {
		t.Fatalf("sequence must start and end with user: %q", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Role == got[i-1].Role {
			t.Fatalf("consecutive %s at %d: %q", got[i].Role, i, got)
		}
	}
	for _, m := range got {
		if m.Text == "" {
			t.Fatalf("empty entry in %q", got)
		}
	}
}

func TestNormalizeDoesNotMutateHistory(t *testing.T) {
	history := []Turn{{Role: RoleUser, Text: "a"}, {Role: RoleUser, Text: "b"}}
	_ = Normalize(history, "c")
	if history[0].Text != "a" || history[1].Text != "b" {
		t.Fatalf("history mutated: %q", history)
	}
}
