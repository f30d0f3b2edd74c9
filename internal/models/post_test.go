package models

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExcerptedPrefersStoredExcerpt(t *testing.T) {
	p := &Post{Excerpt: "short summary", Content: strings.Repeat("x", 500)}
	if got := p.Excerpted(); got != "short summary" {
		t.Errorf("Excerpted() = %q, want stored excerpt", got)
	}
}

func TestExcerptedShortContentPassesThrough(t *testing.T) {
	p := &Post{Content: "a brief update"}
	if got := p.Excerpted(); got != "a brief update" {
		t.Errorf("Excerpted() = %q, want content unchanged", got)
	}
}

func TestExcerptedTruncatesLongContent(t *testing.T) {
	p := &Post{Content: strings.Repeat("a", 250)}
	got := p.Excerpted()
	if got != strings.Repeat("a", 200)+"..." {
		t.Errorf("Excerpted() = %q, want 200 chars plus ellipsis", got)
	}
}

func TestExcerptedKeepsMultiByteRunesIntact(t *testing.T) {
	// 250 three-byte runes; a byte-length cut would land mid-rune
	p := &Post{Content: strings.Repeat("市", 250)}
	got := p.Excerpted()

	if !utf8.ValidString(got) {
		t.Fatalf("Excerpted() produced invalid UTF-8: %q", got)
	}
	if got != strings.Repeat("市", 200)+"..." {
		t.Errorf("Excerpted() = %q, want 200 runes plus ellipsis", got)
	}
}
