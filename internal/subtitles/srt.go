package subtitles

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	blockSplitRE = regexp.MustCompile(`\n\s*\n`)
	timecodeRE   = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2}),(\d{3})`)
	tagRE        = regexp.MustCompile(`<[^>]+>`)
)

// ParseSRT parses SRT subtitle text. The parser is deliberately tolerant:
// blocks without a parseable timecode or without text are skipped, the index
// line is optional, and markup tags are stripped from cue text. Multi-line
// cue text collapses to a single space separated line.
func ParseSRT(data string) []Cue {
	content := strings.TrimSpace(data)
	if content == "" {
		return nil
	}

	var cues []Cue
	for _, block := range blockSplitRE.Split(content, -1) {
		var lines []string
		for _, line := range strings.Split(block, "\n") {
			if trimmed := strings.Trim(line, "\r"); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
		if len(lines) < 2 {
			continue
		}

		// Standard blocks carry an index line before the timecode, but some
		// files omit it.
		timecode := timecodeRE.FindStringSubmatch(lines[1])
		textStart := 2
		if timecode == nil {
			timecode = timecodeRE.FindStringSubmatch(lines[0])
			textStart = 1
		}
		if timecode == nil {
			continue
		}

		text := strings.Join(lines[textStart:], "\n")
		text = tagRE.ReplaceAllString(text, "")
		text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
		if text == "" {
			continue
		}

		cues = append(cues, Cue{
			Start: timecodeSeconds(timecode[1:5]),
			End:   timecodeSeconds(timecode[5:9]),
			Text:  text,
		})
	}
	return cues
}

func timecodeSeconds(parts []string) float64 {
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	seconds, _ := strconv.Atoi(parts[2])
	millis, _ := strconv.Atoi(parts[3])
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000.0
}
