package match

import (
	"errors"

	"github.com/artemave/super-video-grep/internal/timeline"
)

// Word is a transcribed word with its time bounds. Text is the engine's
// surface form, Norm the normalized token used for matching. Times are local
// to whatever window the engine transcribed.
type Word struct {
	Start float64
	End   float64
	Text  string
	Norm  string
}

// Phrase is an ordered list of normalized query tokens.
type Phrase []string

// ParsePhrases normalizes raw phrase strings, dropping phrases with no
// usable tokens. It errors when nothing searchable remains.
func ParsePhrases(raw []string) ([]Phrase, error) {
	phrases := make([]Phrase, 0, len(raw))
	for _, text := range raw {
		if tokens := NormalizeQuery(text); len(tokens) > 0 {
			phrases = append(phrases, Phrase(tokens))
		}
	}
	if len(phrases) == 0 {
		return nil, errors.New("no searchable tokens in any phrase")
	}
	return phrases, nil
}

// phraseAt reports whether the phrase matches the word window starting at i.
func phraseAt(words []Word, i int, phrase Phrase, mode Mode) bool {
	for j, query := range phrase {
		if !TokenMatches(words[i+j].Norm, query, mode) {
			return false
		}
	}
	return true
}

// FindPhraseMatches slides the phrase over the word sequence and returns one
// span per matching window, from the first matched word's start to the last
// matched word's end. Overlapping windows all report, in ascending start
// order.
func FindPhraseMatches(words []Word, phrase Phrase, mode Mode) []timeline.Span {
	if len(phrase) == 0 || len(words) < len(phrase) {
		return nil
	}
	var spans []timeline.Span
	last := len(words) - len(phrase)
	for i := 0; i <= last; i++ {
		if phraseAt(words, i, phrase, mode) {
			spans = append(spans, timeline.Span{
				Start: words[i].Start,
				End:   words[i+len(phrase)-1].End,
			})
		}
	}
	return spans
}

// FindAnyPhraseMatches concatenates matches for every phrase. Spans are not
// deduplicated; downstream merging absorbs duplicates.
func FindAnyPhraseMatches(words []Word, phrases []Phrase, mode Mode) []timeline.Span {
	var spans []timeline.Span
	for _, phrase := range phrases {
		spans = append(spans, FindPhraseMatches(words, phrase, mode)...)
	}
	return spans
}

// TokensContainPhrase reports whether a flat token sequence contains the
// phrase as a contiguous window. Used for the coarse subtitle pass, where
// only presence matters.
func TokensContainPhrase(tokens []string, phrase Phrase, mode Mode) bool {
	if len(phrase) == 0 || len(tokens) < len(phrase) {
		return false
	}
	last := len(tokens) - len(phrase)
	for i := 0; i <= last; i++ {
		hit := true
		for j, query := range phrase {
			if !TokenMatches(tokens[i+j], query, mode) {
				hit = false
				break
			}
		}
		if hit {
			return true
		}
	}
	return false
}
