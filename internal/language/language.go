// Package language matches subtitle track language tags against user input.
// Containers usually tag tracks with ISO 639-2 codes ("eng") while people
// type 2-letter codes or plain names, so comparisons go through a small
// normalization table.
package language

import "strings"

type entry struct {
	code2 string // ISO 639-1
	code3 string // ISO 639-2 primary
	alt3  string // ISO 639-2 bibliographic variant (e.g. "fre" vs "fra")
	word  string // full name form
}

var languages = []entry{
	{"en", "eng", "", "english"},
	{"es", "spa", "", "spanish"},
	{"fr", "fra", "fre", "french"},
	{"de", "deu", "ger", "german"},
	{"it", "ita", "", "italian"},
	{"pt", "por", "", "portuguese"},
	{"ja", "jpn", "", "japanese"},
	{"ko", "kor", "", "korean"},
	{"zh", "zho", "chi", "chinese"},
	{"ru", "rus", "", "russian"},
	{"ar", "ara", "", "arabic"},
	{"hi", "hin", "", "hindi"},
	{"nl", "nld", "dut", "dutch"},
	{"pl", "pol", "", "polish"},
	{"sv", "swe", "", "swedish"},
	{"da", "dan", "", "danish"},
	{"no", "nor", "", "norwegian"},
	{"fi", "fin", "", "finnish"},
}

var index map[string]*entry

func init() {
	index = make(map[string]*entry, len(languages)*4)
	for i := range languages {
		e := &languages[i]
		index[e.code2] = e
		index[e.code3] = e
		if e.alt3 != "" {
			index[e.alt3] = e
		}
		index[e.word] = e
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	return index[code]
}

// Normalize returns the ISO 639-2 code for any recognized identifier.
// Unrecognized identifiers pass through lowercased so exotic tags still
// compare against themselves; empty input stays empty.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code3
	}
	return code
}

// Same reports whether two language identifiers name the same language,
// tolerating mixed 2-letter, 3-letter, and word forms ("en" matches "eng"
// and "english"). Empty identifiers match nothing.
func Same(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb
}
