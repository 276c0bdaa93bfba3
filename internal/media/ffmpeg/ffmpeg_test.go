package ffmpeg

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artemave/super-video-grep/internal/timeline"
)

func recordingService(t *testing.T) (*Service, *[][]string) {
	t.Helper()
	svc := NewService("ffmpeg")
	var calls [][]string
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) (string, error) {
		if name != "ffmpeg" {
			t.Fatalf("unexpected binary %q", name)
		}
		calls = append(calls, args)
		return "", nil
	})
	return svc, &calls
}

func TestExtractAudioWindowArgs(t *testing.T) {
	svc, calls := recordingService(t)

	err := svc.ExtractAudioWindow(context.Background(), "in.mkv", 1.5, 3.75, "out.wav")
	if err != nil {
		t.Fatalf("ExtractAudioWindow returned error: %v", err)
	}
	if len(*calls) != 1 {
		t.Fatalf("expected one call, got %d", len(*calls))
	}
	joined := strings.Join((*calls)[0], " ")
	for _, want := range []string{
		"-ss 1.500",
		"-i in.mkv",
		"-t 2.250",
		"-vn", "-sn", "-dn",
		"-ac 1",
		"-ar 16000",
		"-c:a pcm_s16le",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %v", want, (*calls)[0])
		}
	}
	args := (*calls)[0]
	if args[len(args)-1] != "out.wav" {
		t.Fatalf("destination should be last arg: %v", args)
	}
}

func TestExtractAudioWindowRejectsEmptyWindow(t *testing.T) {
	svc, calls := recordingService(t)
	if err := svc.ExtractAudioWindow(context.Background(), "in.mkv", 5.0, 5.0, "out.wav"); err == nil {
		t.Fatal("expected error for empty window")
	}
	if len(*calls) != 0 {
		t.Fatalf("no command should run for an empty window, got %d calls", len(*calls))
	}
}

func TestCutClipsSkipsZeroDuration(t *testing.T) {
	svc, calls := recordingService(t)

	jobs := []ClipJob{
		{Span: timeline.Span{Start: 1, End: 1}, OutputPath: "skip.mp4"},
		{Span: timeline.Span{Start: 2, End: 3.5}, OutputPath: "keep.mp4"},
	}
	written, err := svc.CutClips(context.Background(), "in.mkv", jobs)
	if err != nil {
		t.Fatalf("CutClips returned error: %v", err)
	}
	if len(written) != 1 || written[0] != "keep.mp4" {
		t.Fatalf("unexpected written clips: %v", written)
	}
	if len(*calls) != 1 {
		t.Fatalf("expected one ffmpeg call, got %d", len(*calls))
	}
	joined := strings.Join((*calls)[0], " ")
	for _, want := range []string{"-ss 2.000", "-t 1.500", "-c:v libx264", "-c:a aac", "-preset veryfast", "-crf 23"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %v", want, (*calls)[0])
		}
	}
	if strings.Contains(joined, "-vf") {
		t.Fatalf("no drawtext expected without a counter label: %v", (*calls)[0])
	}
}

func TestCutClipsCounterLabel(t *testing.T) {
	svc, calls := recordingService(t)

	jobs := []ClipJob{{Span: timeline.Span{Start: 0, End: 1}, OutputPath: "c.mp4", CounterLabel: "12"}}
	if _, err := svc.CutClips(context.Background(), "in.mkv", jobs); err != nil {
		t.Fatalf("CutClips returned error: %v", err)
	}
	joined := strings.Join((*calls)[0], " ")
	if !strings.Contains(joined, "drawtext=text='12':x=24:y=24:fontsize=56:fontcolor=white:box=1:boxcolor=black@0.5:boxborderw=6") {
		t.Fatalf("unexpected drawtext filter: %v", (*calls)[0])
	}
}

func TestEscapeDrawtext(t *testing.T) {
	got := escapeDrawtext(`a:b'c\`)
	want := `a\:b\'c\\`
	if got != want {
		t.Fatalf("escapeDrawtext = %q, want %q", got, want)
	}
}

func TestConcatSingleClipCopies(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "only.mp4")
	if err := os.WriteFile(clip, []byte("clip-bytes"), 0o644); err != nil {
		t.Fatalf("write clip: %v", err)
	}
	out := filepath.Join(dir, "nested", "out.mp4")

	svc, calls := recordingService(t)
	if err := svc.ConcatClips(context.Background(), []string{clip}, out); err != nil {
		t.Fatalf("ConcatClips returned error: %v", err)
	}
	if len(*calls) != 0 {
		t.Fatalf("single clip should copy without running ffmpeg, got %d calls", len(*calls))
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "clip-bytes" {
		t.Fatalf("output content = %q", data)
	}
}

func TestConcatWritesListAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "super.mp4")
	listPath := filepath.Join(dir, "super.concat.txt")
	clips := []string{filepath.Join(dir, "a.mp4"), filepath.Join(dir, "b.mp4")}

	svc := NewService("ffmpeg")
	var sawList string
	svc.WithCommandRunner(func(_ context.Context, _ string, args ...string) (string, error) {
		joined := strings.Join(args, " ")
		for _, want := range []string{"-f concat", "-safe 0", "-c copy"} {
			if !strings.Contains(joined, want) {
				t.Fatalf("args missing %q: %v", want, args)
			}
		}
		data, err := os.ReadFile(listPath)
		if err != nil {
			t.Fatalf("list file should exist during the run: %v", err)
		}
		sawList = string(data)
		return "", nil
	})

	if err := svc.ConcatClips(context.Background(), clips, out); err != nil {
		t.Fatalf("ConcatClips returned error: %v", err)
	}
	want := "file '" + clips[0] + "'\nfile '" + clips[1] + "'\n"
	if sawList != want {
		t.Fatalf("list file = %q, want %q", sawList, want)
	}
	if _, err := os.Stat(listPath); !os.IsNotExist(err) {
		t.Fatalf("list file should be removed after concat, stat err=%v", err)
	}
}

func TestConcatNoClips(t *testing.T) {
	svc, _ := recordingService(t)
	if err := svc.ConcatClips(context.Background(), nil, "out.mp4"); err == nil {
		t.Fatal("expected error for empty clip list")
	}
}

func TestExtractSubtitleStreamArgs(t *testing.T) {
	svc, calls := recordingService(t)
	if err := svc.ExtractSubtitleStream(context.Background(), "in.mkv", "subs.srt", 2); err != nil {
		t.Fatalf("ExtractSubtitleStream returned error: %v", err)
	}
	joined := strings.Join((*calls)[0], " ")
	for _, want := range []string{"-i in.mkv", "-map 0:2", "-c:s srt", "subs.srt"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %v", want, (*calls)[0])
		}
	}
}
