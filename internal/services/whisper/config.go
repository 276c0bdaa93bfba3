package whisper

// Config captures runtime settings for the faster-whisper CLI.
type Config struct {
	// Model is the faster-whisper model to use (e.g. "small", "large-v3").
	Model string
	// Device selects the inference device ("cpu", "cuda", or "auto").
	Device string
	// ComputeType selects the quantization (e.g. "int8", "float16").
	ComputeType string
	// CPUThreads caps inference threads. Zero lets the engine decide.
	CPUThreads int
}

// faster-whisper configuration constants.
const (
	DefaultModel       = "small"
	DefaultDevice      = "cpu"
	DefaultComputeType = "int8"
	PypiIndexURL       = "https://pypi.org/simple"
	OutputFormat       = "json"
)

// Command names for external tools.
const (
	UVXCommand     = "uvx"
	WhisperCommand = "whisper-ctranslate2"
)
