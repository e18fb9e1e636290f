package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanClipboardText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text is kept", "Big idea", "Big idea"},
		{"newlines collapse to spaces", "first\nsecond\r\n\tthird", "first second third"},
		{"control characters are dropped", "a\x07b", "ab"},
		{"html tags are stripped", "<div><b>Bold</b> &amp; plain</div>", "Bold & plain"},
		{"rtf control words are stripped", `{\rtf1\ansi\f0 Hello\par World}`, "Hello World"},
		{"rtf escapes survive", `{\rtf1 a\{b\}}`, "a{b}"},
		{"empty stays empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanClipboardText(tt.in))
		})
	}
}

func TestClipboardFormats(t *testing.T) {
	assert.True(t, isRTF(`{\rtf1\ansi hi}`))
	assert.False(t, isRTF("plain"))
	assert.True(t, isHTML("<html><body>x</body></html>"))
	assert.False(t, isHTML("a < b"))
}
