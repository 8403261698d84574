package models

import (
	"errors"
	"testing"
)

func TestParseSummaryStyle(t *testing.T) {
	cases := []struct {
		in   string
		want SummaryStyle
	}{
		{"concise", StyleConcise},
		{"Analytical", StyleAnalytical},
		{" comprehensive ", StyleComprehensive},
		{"summary_concise", StyleConcise},
		{"summary_analytical", StyleAnalytical},
		{"summary_comprehensive", StyleComprehensive},
	}
	for _, c := range cases {
		got, err := ParseSummaryStyle(c.in)
		if err != nil {
			t.Fatalf("ParseSummaryStyle(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseSummaryStyle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseSummaryStyleUnknown(t *testing.T) {
	_, err := ParseSummaryStyle("poetic")
	if !errors.Is(err, ErrUnknownStyle) {
		t.Fatalf("expected ErrUnknownStyle, got %v", err)
	}
}

func TestSummaryStyleTaskName(t *testing.T) {
	if got := StyleConcise.TaskName(); got != "summary_concise" {
		t.Fatalf("got %q", got)
	}
	if got := StyleComprehensive.TaskName(); got != "summary_comprehensive" {
		t.Fatalf("got %q", got)
	}
}
