package slug

import (
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"schedule 2026-03-01": "schedule-2026-03-01",
		"  Review PR #42!  ":  "review-pr-42",
		"***":                 "untitled",
	}
	for in, want := range cases {
		if got := Make(in); got != want {
			t.Fatalf("Make(%q) = %q, want %q", in, got, want)
		}
	}
	if got := Make("schedule", "2026-10-19"); got != "schedule-2026-10-19" {
		t.Fatalf("unexpected joined slug %q", got)
	}
}

func TestMakeTruncatesAtWordBoundary(t *testing.T) {
	t.Parallel()
	long := Make(strings.Repeat("abc ", 30))
	if len(long) > maxLen || strings.HasSuffix(long, "-") || strings.HasSuffix(long, "-ab") {
		t.Fatalf("expected slug cut at a dash, got %q", long)
	}
}
