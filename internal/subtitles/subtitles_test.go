package subtitles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/artemave/super-video-grep/internal/match"
)

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.srt")
	if err := os.WriteFile(path, []byte(sampleSRT), 0o644); err != nil {
		t.Fatalf("write srt: %v", err)
	}
	cues, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cues) != 3 {
		t.Fatalf("Load returned %d cues, want 3", len(cues))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.srt"), ""); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMatchCues(t *testing.T) {
	cues := []Cue{
		{Start: 1, End: 2, Text: "Well, hello there."},
		{Start: 3, End: 4, Text: "Nothing relevant."},
		{Start: 5, End: 6, Text: "HELLO again!"},
	}
	phrases := []match.Phrase{{"hello"}}
	hits := MatchCues(cues, phrases, match.ModeExact)
	if len(hits) != 2 {
		t.Fatalf("MatchCues returned %d cues, want 2", len(hits))
	}
	if hits[0].Start != 1 || hits[1].Start != 5 {
		t.Fatalf("unexpected cues: %+v", hits)
	}
}

func TestMatchCuesMultiplePhrasesNoDuplicates(t *testing.T) {
	cues := []Cue{{Start: 1, End: 2, Text: "hello there general"}}
	phrases := []match.Phrase{{"hello"}, {"general"}}
	hits := MatchCues(cues, phrases, match.ModeExact)
	if len(hits) != 1 {
		t.Fatalf("a cue matching several phrases should report once, got %d", len(hits))
	}
}

func TestMatchCuesPhraseAcrossCueWords(t *testing.T) {
	cues := []Cue{{Start: 1, End: 2, Text: "say hello, there friend"}}
	phrases := []match.Phrase{{"hello", "there"}}
	if hits := MatchCues(cues, phrases, match.ModeExact); len(hits) != 1 {
		t.Fatalf("punctuation between words should not block a match, got %d hits", len(hits))
	}
}
