package main

import (
	"html"
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
		if output, err := exec.Command("pbpaste").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

func isHTML(text string) bool {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "<") {
		return false
	}
	for _, tag := range []string{"<html", "<body", "<div", "<pre", "<meta"} {
		if strings.Contains(t, tag) {
			return true
		}
	}
	return false
}

// extractTextFromHTML drops tags and decodes entities.
func extractTextFromHTML(markup string) string {
	var b strings.Builder
	b.Grow(len(markup))
	depth := 0
	for _, r := range markup {
		switch {
		case r == '<':
			depth++
		case r == '>' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return html.UnescapeString(b.String())
}

// cleanClipboardText unwraps rich-text clipboard content down to the plain
// JSON a paste should contain.
func cleanClipboardText(text string) string {
	if isRTF(text) {
		text = stripRTF(text)
	}
	if isHTML(text) {
		text = extractTextFromHTML(text)
	}
	text = strings.Map(func(r rune) rune {
		if r < ' ' && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(strings.TrimPrefix(text, "\ufeff"))
}

// isRTF reports whether text is an RTF document. JSON that merely contains
// the control word is left alone.
func isRTF(text string) bool {
	return strings.HasPrefix(strings.TrimPrefix(text, "\ufeff"), `{\rtf`)
}

// stripRTF keeps the text runs of an RTF document: group braces and control
// words are dropped, escaped \\, \{ and \} become literals.
func stripRTF(doc string) string {
	var b strings.Builder
	b.Grow(len(doc))
	rs := []rune(doc)
	isLetter := func(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
	for i := 0; i < len(rs); i++ {
		switch r := rs[i]; {
		case r == '{' || r == '}':
		case r != '\\':
			b.WriteRune(r)
		case i+1 >= len(rs):
		case rs[i+1] == '\\' || rs[i+1] == '{' || rs[i+1] == '}':
			i++
			b.WriteRune(rs[i])
		case isLetter(rs[i+1]):
			// Control word: letters, an optional numeric parameter, and one
			// delimiting space that belongs to the word.
			j := i + 1
			for j < len(rs) && isLetter(rs[j]) {
				j++
			}
			if j < len(rs) && rs[j] == '-' {
				j++
			}
			for j < len(rs) && rs[j] >= '0' && rs[j] <= '9' {
				j++
			}
			if j < len(rs) && rs[j] == ' ' {
				j++
			}
			i = j - 1
		default:
			// Control symbol such as \~ or \'hh: skip the symbol.
			i++
		}
	}
	return b.String()
}
