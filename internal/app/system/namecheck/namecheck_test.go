package namecheck_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dalemusser/cohorthub/internal/app/system/namecheck"
)

func TestTeamName_PlainText(t *testing.T) {
	got, err := namecheck.TeamName("Nightowls")
	if err != nil {
		t.Fatalf("TeamName failed: %v", err)
	}
	if got != "Nightowls" {
		t.Errorf("got %q, want %q", got, "Nightowls")
	}
}

func TestTeamName_StripsMarkup(t *testing.T) {
	got, err := namecheck.TeamName(`<script>alert('x')</script>Night<b>owls</b>`)
	if err != nil {
		t.Fatalf("TeamName failed: %v", err)
	}
	if got != "Nightowls" {
		t.Errorf("got %q, want %q", got, "Nightowls")
	}
}

func TestTeamName_CollapsesWhitespace(t *testing.T) {
	got, err := namecheck.TeamName("  Night   owls \n")
	if err != nil {
		t.Fatalf("TeamName failed: %v", err)
	}
	if got != "Night owls" {
		t.Errorf("got %q, want %q", got, "Night owls")
	}
}

func TestTeamName_EmptyAfterStripping(t *testing.T) {
	if _, err := namecheck.TeamName("<p></p>  "); err != namecheck.ErrEmptyName {
		t.Errorf("got %v, want ErrEmptyName", err)
	}
}

func TestTeamName_Truncates(t *testing.T) {
	got, err := namecheck.TeamName(strings.Repeat("a", 200))
	if err != nil {
		t.Fatalf("TeamName failed: %v", err)
	}
	if len(got) > namecheck.MaxLength {
		t.Errorf("length %d exceeds max %d", len(got), namecheck.MaxLength)
	}
}

func TestTeamName_TruncatesOnRuneBoundary(t *testing.T) {
	got, err := namecheck.TeamName(strings.Repeat("é", 200))
	if err != nil {
		t.Fatalf("TeamName failed: %v", err)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncated name is not valid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != namecheck.MaxLength {
		t.Errorf("rune count %d, want %d", n, namecheck.MaxLength)
	}
}

func TestTeamName_KeepsApostrophes(t *testing.T) {
	got, err := namecheck.TeamName("Murphy's Crew")
	if err != nil {
		t.Fatalf("TeamName failed: %v", err)
	}
	if got != "Murphy's Crew" {
		t.Errorf("got %q, want %q", got, "Murphy's Crew")
	}
}
