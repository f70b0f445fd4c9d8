package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"items":[]}`, `{"items":[]}`},
		{"json fence", "```json\n{\"items\":[]}\n```", `{"items":[]}`},
		{"bare fence", "```\n{\"items\":[]}\n```", `{"items":[]}`},
		{"leading whitespace", "  ```json\n{}\n```  ", "{}"},
		{"fence without newline stays intact inside", "```{}```", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}

func TestExtractFirstJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"trailing prose", `{"a":1} and then the model kept talking`, `{"a":1}`},
		{"leading prose", `Sure! Here you go: {"a":1}`, `{"a":1}`},
		{"nested objects", `{"a":{"b":2}} extra`, `{"a":{"b":2}}`},
		{"braces inside strings", `{"a":"}{"} tail`, `{"a":"}{"}`},
		{"unbalanced returns original", `{"a":1`, `{"a":1`},
		{"no object returns original", `plain text`, `plain text`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFirstJSONObject(tt.in))
		})
	}
}
