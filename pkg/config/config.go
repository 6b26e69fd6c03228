package config

// Output formats accepted by Output.Format
const (
	FormatAuto = "auto"
	FormatTerm = "term"
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the complete mkp configuration
type Config struct {
	Pack   Pack   `koanf:"pack" json:"pack"`
	Output Output `koanf:"output" json:"output"`
}

// Pack holds settings for building packages
type Pack struct {
	Compress bool   `koanf:"compress" json:"compress"`
	DistDir  string `koanf:"dist_dir" json:"distDir"`
	Validate bool   `koanf:"validate" json:"validate"`
}

// Output holds settings for command output
type Output struct {
	Format string `koanf:"format" json:"format"`
	Width  int    `koanf:"width" json:"width"`
}

// Default returns the configuration described by the embedded defaults
func Default() *Config {
	return &Config{
		Pack: Pack{
			Compress: true,
			DistDir:  "dist",
			Validate: true,
		},
		Output: Output{
			Format: FormatAuto,
		},
	}
}

// Global configuration instance
var globalConfig *Config

// Initialize sets up the global configuration
func Initialize(cfg *Config) {
	if cfg == nil {
		cfg = Default()
	}
	globalConfig = cfg
}

// Get returns the current configuration
func Get() *Config {
	if globalConfig == nil {
		Initialize(nil)
	}
	return globalConfig
}
