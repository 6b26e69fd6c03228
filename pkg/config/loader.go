package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/mkp/pkg/errors"
	"github.com/arthur-debert/mkp/pkg/logging"
)

// EnvPrefix prefixes environment variables that override configuration.
// MKP_PACK_DIST_DIR sets pack.dist_dir.
const EnvPrefix = "MKP_"

// userConfigNames are looked up, in order, under the XDG config directories
var userConfigNames = []string{
	filepath.Join(logging.AppName, "config.toml"),
	filepath.Join(logging.AppName, "config.yaml"),
}

// LoadOptions selects the sources LoadConfiguration reads
type LoadOptions struct {
	// File is an explicit configuration file; it must exist. Empty means
	// the first user file found under the XDG config directories, if any.
	File string
	// SkipUserFile ignores user files altogether
	SkipUserFile bool
	// Overrides are applied last, keyed by dotted path ("pack.compress")
	Overrides map[string]interface{}
}

// LoadConfiguration layers defaults, the user file, environment variables
// and overrides into a validated Config
func LoadConfiguration(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load embedded defaults")
	}

	// 2. User file
	path, err := userConfigPath(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		logger.Debug().Str("path", path).Msg("Loading config file")
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse config file").WithPath(path)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		if mkpErr, ok := err.(*errors.MkpError); ok && path != "" {
			return nil, mkpErr.WithPath(path)
		}
		return nil, err
	}

	logger.Trace().Interface("config", cfg).Msg("Configuration loaded")
	return &cfg, nil
}

// Validate checks values that decode fine but make no sense
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatAuto, FormatTerm, FormatText, FormatJSON:
	default:
		return errors.Newf(errors.ErrConfigParse, "output.format must be one of auto, term, text, json; got %q", c.Output.Format).
			WithDetail("key", "output.format")
	}
	if c.Output.Width < 0 {
		return errors.Newf(errors.ErrConfigParse, "output.width must not be negative; got %d", c.Output.Width).
			WithDetail("key", "output.width")
	}
	if strings.TrimSpace(c.Pack.DistDir) == "" {
		return errors.New(errors.ErrConfigParse, "pack.dist_dir must not be empty").
			WithDetail("key", "pack.dist_dir")
	}
	return nil
}

func userConfigPath(opts LoadOptions) (string, error) {
	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return "", errors.Wrap(err, errors.ErrConfigLoad, "cannot read config file").WithPath(opts.File)
		}
		return opts.File, nil
	}
	if opts.SkipUserFile {
		return "", nil
	}
	for _, name := range userConfigNames {
		if path, err := xdg.SearchConfigFile(name); err == nil {
			return path, nil
		}
	}
	return "", nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// envKey maps MKP_SECTION_SOME_KEY to section.some_key
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}
