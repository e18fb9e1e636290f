package main

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "<") &&
		(strings.Contains(text, "<html") || strings.Contains(text, "<body") || strings.Contains(text, "<div"))
}

// stripRTF drops groups braces and control words, keeping escaped literals.
func stripRTF(text string) string {
	var result strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '{' || r == '}':
			continue
		case r == '\\' && i+1 < len(runes):
			next := runes[i+1]
			if next == '\\' || next == '{' || next == '}' {
				result.WriteRune(next)
				i++
				continue
			}
			// Skip the control word and its optional space delimiter
			j := i + 1
			for j < len(runes) && runes[j] != ' ' && runes[j] != '\\' && runes[j] != '{' && runes[j] != '}' {
				j++
			}
			if j < len(runes) && runes[j] == ' ' {
				j++
			}
			word := string(runes[i+1 : min(j, len(runes))])
			if strings.HasPrefix(word, "par") || strings.HasPrefix(word, "line") {
				result.WriteRune(' ')
			}
			i = j - 1
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}

func stripHTML(html string) string {
	var result strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			result.WriteRune(r)
		}
	}
	return strings.NewReplacer(
		"&lt;", "<", "&gt;", ">", "&amp;", "&",
		"&quot;", "\"", "&#39;", "'", "&nbsp;", " ",
	).Replace(result.String())
}

// cleanClipboardText turns pasted content into a single-line label.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	if isRTF(text) {
		text = stripRTF(text)
	} else if isHTML(text) {
		text = stripHTML(text)
	}
	var result strings.Builder
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			result.WriteRune(' ')
		case r >= 32:
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}
