package cli

import (
	"path/filepath"
	"strings"
	"time"

	crdb "github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/toyz/visitgen/internal/errors"
	"github.com/toyz/visitgen/internal/generator"
	"github.com/toyz/visitgen/internal/utils"
)

const (
	// ConfigName is the base name of the config file, without extension
	ConfigName = "visitgen"

	// EnvPrefix prefixes environment overrides, as in VISITGEN_OUTPUT
	EnvPrefix = "VISITGEN"

	// DefaultOutputDir is created under the first input directory when no
	// output directory is configured
	DefaultOutputDir = "Generated"

	// DefaultDebounce is how long watch mode waits for file events to settle
	DefaultDebounce = 300 * time.Millisecond
)

// Config keys
const (
	KeyDirectories   = "directories"
	KeyOutput        = "output"
	KeyCollisions    = "collisions"
	KeyStrict        = "strict"
	KeyVerbose       = "verbose"
	KeyQuiet         = "quiet"
	KeyDryRun        = "dry_run"
	KeyExclude       = "exclude"
	KeyWatchDebounce = "watch.debounce"
)

// Config holds the configuration for a generator run
type Config struct {
	// Directories is the list of directories to scan for C# files
	Directories []string `mapstructure:"directories"`

	// Output is the directory artifacts are written to
	Output string `mapstructure:"output"`

	// Collisions selects how clashing file names are handled
	Collisions string `mapstructure:"collisions"`

	// Strict turns unparseable files into errors instead of warnings
	Strict bool `mapstructure:"strict"`

	Verbose bool `mapstructure:"verbose"`
	Quiet   bool `mapstructure:"quiet"`
	DryRun  bool `mapstructure:"dry_run"`

	// Exclude lists extra directory names the scanner skips
	Exclude []string `mapstructure:"exclude"`

	Watch WatchConfig `mapstructure:"watch"`

	// ConfigFile is the file the configuration was read from, if any
	ConfigFile string `mapstructure:"-"`
}

// WatchConfig configures `visitgen watch`
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// NewViper returns a viper instance with visitgen's defaults and environment
// binding. Callers bind command-line flags on top before LoadConfig.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	return v
}

// SetDefaults registers every config key so environment overrides apply to
// all of them
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDirectories, []string{})
	v.SetDefault(KeyOutput, "")
	v.SetDefault(KeyCollisions, string(generator.CollisionQualify))
	v.SetDefault(KeyStrict, false)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyQuiet, false)
	v.SetDefault(KeyDryRun, false)
	v.SetDefault(KeyExclude, []string{})
	v.SetDefault(KeyWatchDebounce, DefaultDebounce)
}

// LoadConfig reads the config file, applies args as the directory list when
// given, and validates the result. configFile may be empty, in which case
// visitgen.yaml or visitgen.toml is looked up in the working directory and
// then in the first input directory.
func LoadConfig(v *viper.Viper, configFile string, args []string) (Config, error) {
	if len(args) > 0 {
		v.Set(KeyDirectories, args)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
		if dirs := v.GetStringSlice(KeyDirectories); len(dirs) > 0 {
			v.AddConfigPath(utils.NormalizeRoot(dirs[0]))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !crdb.As(err, &notFound) {
			return Config{}, errors.WrapConfigurationError(configSource(configFile), "read", err).
				WithSuggestion("Check the file is valid YAML or TOML")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, errors.WrapConfigurationError(configSource(v.ConfigFileUsed()), "decode", err)
	}
	config.ConfigFile = v.ConfigFileUsed()

	if len(config.Directories) == 0 {
		config.Directories = []string{"."}
	}
	if config.Output == "" {
		config.Output = filepath.Join(utils.NormalizeRoot(config.Directories[0]), DefaultOutputDir)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks field values and returns a ConfigurationError for the
// first invalid one
func (c Config) Validate() error {
	checks := []func() error{
		func() error {
			return utils.NewValidatorChain(
				utils.SliceNotEmpty[string](KeyDirectories),
				utils.ValidateEach(KeyDirectories, utils.NotBlank(KeyDirectories)),
			).Validate(c.Directories)
		},
		func() error { return utils.NotBlank(KeyOutput)(c.Output) },
		func() error {
			policy := generator.CollisionPolicy(strings.ToLower(strings.TrimSpace(c.Collisions)))
			return utils.IsOneOf(KeyCollisions, generator.CollisionPolicies...)(policy)
		},
		func() error { return utils.ValidateEach(KeyExclude, utils.IsDirectoryName(KeyExclude))(c.Exclude) },
		func() error { return utils.PositiveDuration(KeyWatchDebounce)(c.Watch.Debounce) },
		func() error {
			return utils.Custom(KeyQuiet, "cannot be combined with verbose", func(c Config) bool {
				return !(c.Quiet && c.Verbose)
			})(c)
		},
	}

	for _, check := range checks {
		if err := check(); err != nil {
			if ve, ok := err.(utils.ValidationError); ok {
				return errors.ConfigurationError(ve.Field, ve.Message)
			}
			return errors.WrapConfigurationError(configSource(c.ConfigFile), "validate", err)
		}
	}
	return nil
}

// DiagnosticLevel maps the verbosity flags onto a diagnostics level
func (c Config) DiagnosticLevel() utils.DiagnosticLevel {
	switch {
	case c.Quiet:
		return utils.DiagnosticError
	case c.Verbose:
		return utils.DiagnosticVerbose
	default:
		return utils.DiagnosticInfo
	}
}

func configSource(file string) string {
	if file == "" {
		return ConfigName
	}
	return file
}
