package gist

import (
	"strings"
	"testing"
)

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"quarterly-report.pdf", "quarterly-report"},
		{"notes.v2.docx", "notes.v2"},
		{"plain", "plain"},
		{"", "Text Upload"},
		{"   ", "Text Upload"},
		{".pdf", "Text Upload"},
	}
	for _, c := range cases {
		if got := deriveTitle(c.in); got != c.want {
			t.Fatalf("deriveTitle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPreviewTextClips(t *testing.T) {
	long := strings.Repeat("word ", 50)
	got := previewText(long, recentPreviewLen)
	if len([]rune(got)) > recentPreviewLen+3 {
		t.Fatalf("preview too long: %d runes", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
}

func TestPreviewTextShortUnchanged(t *testing.T) {
	if got := previewText("short summary", recentPreviewLen); got != "short summary" {
		t.Fatalf("got %q", got)
	}
}
