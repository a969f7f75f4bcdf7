package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/examstat-cli/internal/dataset"
	"github.com/KaramelBytes/examstat-cli/internal/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides, e.g. EXAMSTAT_DATASET_PATH.
const EnvPrefix = "EXAMSTAT"

// Global configuration structure.
type Global struct {
	DatasetPath      string `mapstructure:"dataset_path" yaml:"dataset_path"`
	Delimiter        string `mapstructure:"delimiter" yaml:"delimiter"`
	DecimalSeparator string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	SheetName        string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex       int    `mapstructure:"sheet_index" yaml:"sheet_index"`

	// Output
	SampleRows int    `mapstructure:"sample_rows" yaml:"sample_rows"`
	PlotBins   int    `mapstructure:"plot_bins" yaml:"plot_bins"`
	PlotWidth  int    `mapstructure:"plot_width" yaml:"plot_width"`
	PlotDir    string `mapstructure:"plot_dir" yaml:"plot_dir"`
	Color      bool   `mapstructure:"color" yaml:"color"`
}

// Dir returns ~/.examstat.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".examstat"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.examstat/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is read into the environment first; a missing one is ignored.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	c, err := load(cfgFile, true)
	if err != nil {
		return nil, err
	}
	if p, err := utils.ExpandHome(c.PlotDir); err == nil {
		c.PlotDir = p
	}
	return c, nil
}

// LoadFile reads only the config file and defaults, ignoring the environment.
// Use it when the result is going to be saved back.
func LoadFile(cfgFile string) (*Global, error) {
	return load(cfgFile, false)
}

func load(cfgFile string, env bool) (*Global, error) {
	v := viper.New()
	if env {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	v.SetDefault("dataset_path", dataset.DefaultPath)
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal_separator", ".")
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 1)
	v.SetDefault("sample_rows", 5)
	v.SetDefault("plot_bins", 10)
	v.SetDefault("plot_width", 50)
	v.SetDefault("plot_dir", "")
	v.SetDefault("color", true)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// DatasetOptions converts the reader settings into dataset.Options.
func (c *Global) DatasetOptions() (dataset.Options, error) {
	opt := dataset.Options{SheetName: c.SheetName, SheetIndex: c.SheetIndex}
	switch strings.ToLower(c.Delimiter) {
	case "":
	case ",", "comma":
		opt.Delimiter = ','
	case "\t", "\\t", "tab":
		opt.Delimiter = '\t'
	case ";", "semicolon":
		opt.Delimiter = ';'
	case "|", "pipe":
		opt.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported delimiter: %q", c.Delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(c.DecimalSeparator)) {
	case "", ".", "dot":
		opt.DecimalSeparator = '.'
	case ",", "comma":
		opt.DecimalSeparator = ','
	default:
		return opt, fmt.Errorf("unsupported decimal_separator: %q", c.DecimalSeparator)
	}
	return opt, nil
}

// Set assigns one key from its string form, validating the value.
func (c *Global) Set(key, val string) error {
	switch key {
	case "dataset_path":
		c.DatasetPath = val
	case "delimiter", "decimal_separator":
		next := *c
		if key == "delimiter" {
			next.Delimiter = val
		} else {
			next.DecimalSeparator = val
		}
		if _, err := next.DatasetOptions(); err != nil {
			return err
		}
		*c = next
	case "sheet_name":
		c.SheetName = val
	case "sheet_index":
		return setPositive(&c.SheetIndex, key, val)
	case "sample_rows":
		return setPositive(&c.SampleRows, key, val)
	case "plot_bins":
		return setPositive(&c.PlotBins, key, val)
	case "plot_width":
		return setPositive(&c.PlotWidth, key, val)
	case "plot_dir":
		c.PlotDir = val
	case "color":
		switch strings.ToLower(val) {
		case "true", "yes", "on", "1":
			c.Color = true
		case "false", "no", "off", "0":
			c.Color = false
		default:
			return fmt.Errorf("invalid bool for color: %s", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func setPositive(dst *int, key, val string) error {
	i, err := strconv.Atoi(val)
	if err != nil || i <= 0 {
		return fmt.Errorf("invalid positive int for %s: %v", key, val)
	}
	*dst = i
	return nil
}
