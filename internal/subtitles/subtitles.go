package subtitles

import (
	"fmt"
	"os"

	"github.com/artemave/super-video-grep/internal/match"
)

// Cue is a single subtitle entry with absolute media times in seconds.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// Load reads an SRT file and parses its cues. An empty encoding name enables
// detection from byte order marks and content.
func Load(path, encodingName string) ([]Cue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read subtitles: %w", err)
	}
	text, err := DecodeBytes(data, encodingName)
	if err != nil {
		return nil, err
	}
	return ParseSRT(text), nil
}

// MatchCues returns the cues whose text contains at least one of the phrases.
// Cue text is normalized with the same rules applied to ASR words, so the
// coarse pass and the refinement pass agree on what a token is.
func MatchCues(cues []Cue, phrases []match.Phrase, mode match.Mode) []Cue {
	var hits []Cue
	for _, cue := range cues {
		tokens := match.NormalizeQuery(cue.Text)
		for _, phrase := range phrases {
			if match.TokensContainPhrase(tokens, phrase, mode) {
				hits = append(hits, cue)
				break
			}
		}
	}
	return hits
}
