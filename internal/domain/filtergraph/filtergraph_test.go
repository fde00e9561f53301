package filtergraph

import "testing"

func TestChain_BurnOnly(t *testing.T) {
	got := Chain("/tmp/job/captions.ass", "")
	want := `subtitles=/tmp/job/captions.ass`
	if got != want {
		t.Fatalf("Chain = %q, want %q", got, want)
	}
}

func TestChain_GradeAppendsAfterBurn(t *testing.T) {
	got := Chain("/tmp/job/captions.ass", "hue=s=0")
	want := `subtitles=/tmp/job/captions.ass,hue=s=0`
	if got != want {
		t.Fatalf("Chain = %q, want %q", got, want)
	}
}

func TestEscapePath(t *testing.T) {
	tests := map[string]string{
		`C:\work\subs.ass`: `C\:\\work\\subs.ass`,
		`/plain/path.ass`:  `/plain/path.ass`,
	}
	for in, want := range tests {
		if got := EscapePath(in); got != want {
			t.Fatalf("EscapePath(%q) = %q, want %q", in, got, want)
		}
	}
}
