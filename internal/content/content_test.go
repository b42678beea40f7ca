package content

import (
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain text", "Hello World", "Hello World"},
		{"HTML tags", "Hello <b>World</b>", "Hello <b>World</b>"},
		{"Script tag", "<script>alert('xss')</script>Hello", "Hello"},
		{"Event handler", "<a href='javascript:alert(1)'>Click me</a>", "Click me"},
		{"Whitespace", "  hi there \n", "hi there"},
		{"Emoji", "I am 🤖", "I am 🤖"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.expected {
				t.Errorf("Clean() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid alphanumeric", "general", false},
		{"Valid with dot", "chan.name", false},
		{"Valid with dash", "chan-name", false},
		{"Valid with underscore", "chan_name", false},
		{"Invalid space", "chan name", true},
		{"Invalid special char", "chan@name", true},
		{"Invalid markup", "<script>", true},
		{"Empty", "", true},
		{"Mixed case", "General.Chat-123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateName(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidateName() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
