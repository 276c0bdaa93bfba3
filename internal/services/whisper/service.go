package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/artemave/super-video-grep/internal/asr"
	"github.com/artemave/super-video-grep/internal/match"
)

// Service runs faster-whisper through uvx and implements asr.Engine.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) (string, error)
}

// NewService creates a faster-whisper service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) (string, error)) {
	s.commandRunner = runner
}

// Name identifies the engine in logs and cache keys.
func (s *Service) Name() string { return "faster-whisper" }

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// Transcribe runs the engine over one audio file and returns its timed
// words. The engine writes a JSON transcript next to the audio file; words
// whose text normalizes to nothing (pure punctuation) are dropped.
func (s *Service) Transcribe(ctx context.Context, audioPath string, opts asr.Options) (asr.Result, error) {
	if audioPath == "" {
		return asr.Result{}, fmt.Errorf("transcribe: audio path required")
	}
	outputDir := filepath.Dir(audioPath)

	args := s.buildArgs(audioPath, outputDir, opts)
	output, err := s.run(ctx, UVXCommand, args...)
	if err != nil {
		if option := rejectedOption(output); option != "" {
			return asr.Result{}, &asr.UnsupportedOptionError{Option: option}
		}
		return asr.Result{}, err
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	words, err := loadWords(filepath.Join(outputDir, baseName+".json"))
	if err != nil {
		return asr.Result{}, err
	}
	return asr.Result{Words: words}, nil
}

// run executes a command, using the custom runner if set. It returns the
// combined output so callers can classify failures.
func (s *Service) run(ctx context.Context, name string, args ...string) (string, error) {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return string(output), nil
}

// buildArgs constructs the uvx command arguments for whisper-ctranslate2.
func (s *Service) buildArgs(source, outputDir string, opts asr.Options) []string {
	args := make([]string, 0, 32)

	args = append(args, "--index-url", PypiIndexURL)

	model := s.cfg.Model
	if model == "" {
		model = DefaultModel
	}
	device := s.cfg.Device
	if device == "" {
		device = DefaultDevice
	}
	computeType := s.cfg.ComputeType
	if computeType == "" {
		computeType = DefaultComputeType
	}

	args = append(args,
		WhisperCommand,
		source,
		"--model", model,
		"--device", device,
		"--compute_type", computeType,
		"--output_format", OutputFormat,
		"--output_dir", outputDir,
		"--word_timestamps", "True",
	)

	if s.cfg.CPUThreads > 0 {
		args = append(args, "--threads", strconv.Itoa(s.cfg.CPUThreads))
	}
	if opts.Language != "" {
		args = append(args, "--language", opts.Language)
	}
	if opts.VADFilter || len(opts.VADParams) > 0 {
		args = append(args, "--vad_filter", "True")
		keys := make([]string, 0, len(opts.VADParams))
		for key := range opts.VADParams {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			args = append(args, "--vad_"+key, formatParam(opts.VADParams[key]))
		}
	}
	if opts.BatchSize > 1 {
		args = append(args, "--batched", "True", "--batch_size", strconv.Itoa(opts.BatchSize))
	}

	return args
}

func formatParam(value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

var (
	unrecognizedArgsRE = regexp.MustCompile(`unrecognized arguments: (--[\w-]+)`)
	badArgumentRE      = regexp.MustCompile(`error: argument (--[\w-]+)`)
)

// rejectedOption classifies argparse rejections in the engine output so the
// adapter can degrade the request. An empty return means the failure was not
// an option rejection.
func rejectedOption(output string) string {
	flag := ""
	if m := unrecognizedArgsRE.FindStringSubmatch(output); m != nil {
		flag = m[1]
	} else if m := badArgumentRE.FindStringSubmatch(output); m != nil {
		flag = m[1]
	}
	if flag == "" {
		return ""
	}
	switch {
	case strings.Contains(flag, "batch"):
		return asr.OptionBatch
	case strings.Contains(flag, "vad"):
		return asr.OptionVAD
	default:
		return strings.TrimPrefix(flag, "--")
	}
}

type jsonWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type jsonSegment struct {
	Text  string     `json:"text"`
	Start float64    `json:"start"`
	End   float64    `json:"end"`
	Words []jsonWord `json:"words"`
}

type transcriptPayload struct {
	Segments []jsonSegment `json:"segments"`
}

func loadWords(jsonPath string) ([]match.Word, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	var payload transcriptPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse transcript json: %w", err)
	}

	var words []match.Word
	for _, segment := range payload.Segments {
		for _, w := range segment.Words {
			norm := match.NormalizeToken(w.Word)
			if norm == "" {
				continue
			}
			words = append(words, match.Word{
				Start: w.Start,
				End:   w.End,
				Text:  strings.TrimSpace(w.Word),
				Norm:  norm,
			})
		}
	}
	sort.SliceStable(words, func(i, j int) bool { return words[i].Start < words[j].Start })
	return words, nil
}
