package syncer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Go blog", "Go blog"},
		{"separators", "a/b/c", "a b c"},
		{"leading separator", "/etc/passwd", " etc passwd"},
		{"empty", "", ""},
		{"exactly max", strings.Repeat("x", MaxNameLen), strings.Repeat("x", MaxNameLen)},
		{"over max", strings.Repeat("y", 300), strings.Repeat("y", MaxNameLen)},
		{"trailing space after cut", strings.Repeat("z", 246) + "   tail", strings.Repeat("z", 246)},
		{"short trailing space kept", "keep me ", "keep me "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.in)
			if got != tt.want {
				t.Errorf("Sanitize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitize_NoSeparators(t *testing.T) {
	got := Sanitize("a/b/c")
	if strings.ContainsRune(got, '/') {
		t.Fatalf("Sanitize left a separator: %q", got)
	}
}

func TestSanitize_Bounded(t *testing.T) {
	for _, n := range []int{247, 248, 249, 300, 1000} {
		in := strings.Repeat("ab/", n)
		got := Sanitize(in)
		if utf8.RuneCountInString(got) > MaxNameLen {
			t.Errorf("len %d input produced %d runes", len(in), utf8.RuneCountInString(got))
		}
	}
}

func TestSanitize_MultibyteNotSplit(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantRunes int
	}{
		{"two byte", strings.Repeat("é", 300), MaxNameBytes / 2},
		{"three byte", strings.Repeat("書", 300), MaxNameBytes / 3},
		{"four byte", strings.Repeat("🔖", 300), MaxNameBytes / 4},
		{"ascii then cjk", strings.Repeat("a", 246) + "書書", 246},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.in)
			if !utf8.ValidString(got) {
				t.Fatalf("Sanitize produced invalid UTF-8")
			}
			if len(got) > MaxNameBytes {
				t.Errorf("got %d bytes, limit %d", len(got), MaxNameBytes)
			}
			if n := utf8.RuneCountInString(got); n != tt.wantRunes {
				t.Errorf("got %d runes, want %d", n, tt.wantRunes)
			}
		})
	}
}

func TestSanitize_TrimsAfterByteCut(t *testing.T) {
	in := strings.Repeat("書", 80) + "      " + strings.Repeat("書", 10)
	got := Sanitize(in)
	if got != strings.Repeat("書", 80) {
		t.Errorf("Sanitize() = %q", got)
	}
}

func TestNamerPath_LongMultibyteIsWritable(t *testing.T) {
	dir := t.TempDir()
	path := NewNamer(dir).Path(strings.Repeat("日本語のブックマーク", 30))

	if n := len(filepath.Base(path)); n > 255 {
		t.Fatalf("file name is %d bytes", n)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("writing %s: %v", filepath.Base(path), err)
	}
}

func TestSanitize_Deterministic(t *testing.T) {
	in := strings.Repeat("Some / description ", 30)
	if Sanitize(in) != Sanitize(in) {
		t.Fatal("Sanitize is not deterministic")
	}
}

func TestNamerPath(t *testing.T) {
	n := NewNamer("/tmp/out")
	got := n.Path("How to/why to")
	want := filepath.Join("/tmp/out", "How to why to.webloc")
	if got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestSeenSet(t *testing.T) {
	s := NewSeenSet()
	if !s.Seen("foo") {
		t.Fatal("first foo should be new")
	}
	if s.Seen("foo") || s.Seen("foo") {
		t.Fatal("repeated foo should be a duplicate")
	}
	if !s.Seen("bar") {
		t.Fatal("first bar should be new")
	}
	if s.Duplicates() != 2 {
		t.Errorf("Duplicates() = %d, want 2", s.Duplicates())
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}
