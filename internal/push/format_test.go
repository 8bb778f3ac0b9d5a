package push

import (
	"strings"
	"testing"
)

func TestFormatTitle_NoLabel(t *testing.T) {
	if got := FormatTitle("", "Build finished"); got != "Build finished" {
		t.Errorf("FormatTitle = %q, want title unchanged", got)
	}
}

func TestFormatTitle_ShortCombined(t *testing.T) {
	got := FormatTitle("prod-box", "Build finished")
	want := "prod-box: Build finished"
	if got != want {
		t.Errorf("FormatTitle = %q, want %q", got, want)
	}
}

func TestFormatTitle_TruncatesFromFront(t *testing.T) {
	title := strings.Repeat("abcdef", 10) // 60 chars
	got := FormatTitle("prod-box", title)

	if n := len([]rune(got)); n != maxTitleRunes {
		t.Errorf("formatted length = %d runes, want %d", n, maxTitleRunes)
	}
	if !strings.HasPrefix(got, "prod-box: ...") {
		t.Errorf("formatted = %q, want prefix %q", got, "prod-box: ...")
	}
	// The suffix of the original title survives
	kept := maxTitleRunes - len([]rune("prod-box: ..."))
	if !strings.HasSuffix(got, title[len(title)-kept:]) {
		t.Errorf("formatted = %q, want it to end with the original title's last %d chars", got, kept)
	}
}

func TestFormatTitle_CountsRunesNotBytes(t *testing.T) {
	// 60 multi-byte runes
	title := strings.Repeat("über壱弐", 10)
	got := FormatTitle("box", title)

	if n := len([]rune(got)); n != maxTitleRunes {
		t.Errorf("formatted length = %d runes, want %d", n, maxTitleRunes)
	}
	runes := []rune(title)
	if !strings.HasSuffix(got, string(runes[len(runes)-10:])) {
		t.Errorf("formatted = %q should preserve the title suffix rune-for-rune", got)
	}
}

func TestFormatTitle_ExactBudget(t *testing.T) {
	// label(4) + ": "(2) + title(34) == 40: no truncation
	title := strings.Repeat("x", 34)
	got := FormatTitle("host", title)
	if got != "host: "+title {
		t.Errorf("FormatTitle = %q, want untruncated combination", got)
	}
	if n := len([]rune(got)); n != maxTitleRunes {
		t.Errorf("length = %d, want %d", n, maxTitleRunes)
	}
}
