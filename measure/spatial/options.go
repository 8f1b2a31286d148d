package spatial

const (
	// DefaultWindowSec is the analysis window length.
	DefaultWindowSec = 2.0

	// DefaultHopSec is the distance between window starts.
	DefaultHopSec = 0.1
)

// Config holds the window geometry.
type Config struct {
	WindowSec float64
	HopSec    float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the 2 s / 100 ms geometry.
func DefaultConfig() Config {
	return Config{
		WindowSec: DefaultWindowSec,
		HopSec:    DefaultHopSec,
	}
}

// WithWindow sets the window length in seconds. Non-positive values are
// ignored.
func WithWindow(sec float64) Option {
	return func(cfg *Config) {
		if sec > 0 {
			cfg.WindowSec = sec
		}
	}
}

// WithHop sets the hop in seconds. Non-positive values are ignored.
func WithHop(sec float64) Option {
	return func(cfg *Config) {
		if sec > 0 {
			cfg.HopSec = sec
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// sizes converts the geometry to samples. Both are at least one.
func (c Config) sizes(sampleRate int) (window, hop int) {
	window = max(int(c.WindowSec*float64(sampleRate)), 1)
	hop = max(int(c.HopSec*float64(sampleRate)), 1)

	return window, hop
}
