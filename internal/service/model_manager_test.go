package service

import "testing"

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"json code fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"plain code fence", "```\n[1, 2]\n```", `[1, 2]`},
		{"leading prose", `Here is the result: {"a": 1} hope it helps`, `{"a": 1}`},
		{"nested objects", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`},
		{"braces inside strings", `{"a": "closing } inside"}`, `{"a": "closing } inside"}`},
		{"escaped quotes", `{"a": "she said \"}\" loudly"}`, `{"a": "she said \"}\" loudly"}`},
		{"no json at all", "sorry, I cannot do that", ""},
		{"unbalanced", `{"a": 1`, ""},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSON(tc.input); got != tc.want {
				t.Fatalf("extractJSON(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
