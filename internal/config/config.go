package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/glance-cli/internal/heuristics"
)

// ErrUnknownKey is returned by Set for keys the config does not carry.
var ErrUnknownKey = errors.New("unknown config key")

// Global configuration structure.
type Global struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// Format is the default report format: markdown, html, json or yaml.
	Format     string `mapstructure:"format" yaml:"format"`
	MaxRows    int    `mapstructure:"max_rows" yaml:"max_rows"`
	SampleRows int    `mapstructure:"sample_rows" yaml:"sample_rows"`
	Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`

	// HTTP server
	ServerAddr       string `mapstructure:"server_addr" yaml:"server_addr"`
	ServerMaxBodyMB  int    `mapstructure:"server_max_body_mb" yaml:"server_max_body_mb"`
	ServerTimeoutSec int    `mapstructure:"server_timeout_sec" yaml:"server_timeout_sec"`

	Heuristics heuristics.Config `mapstructure:"heuristics" yaml:"heuristics"`
}

// Formats lists the accepted report formats.
var Formats = []string{"markdown", "html", "json", "yaml"}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".glance"), nil
}

// Path returns cfgFile or ~/.glance/config.yaml.
func Path(cfgFile string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	dir, err := defaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.glance/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path, err := Path(cfgFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Defaults returns the built-in configuration without reading files or env.
func Defaults() *Global {
	return &Global{
		LogLevel:         "info",
		Format:           "markdown",
		MaxRows:          100000,
		ServerAddr:       ":8080",
		ServerMaxBodyMB:  32,
		ServerTimeoutSec: 30,
		Heuristics:       heuristics.Default(),
	}
}

// heuristicDefaults flattens heuristics.Default() into yaml keys.
func heuristicDefaults() (map[string]any, error) {
	b, err := yaml.Marshal(heuristics.Default())
	if err != nil {
		return nil, fmt.Errorf("marshal heuristics: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unmarshal heuristics: %w", err)
	}
	return m, nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is loaded first when present.
func Load(cfgFile string) (*Global, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("GLANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("format", "markdown")
	v.SetDefault("max_rows", 100000)
	v.SetDefault("sample_rows", 0)
	v.SetDefault("delimiter", "")
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("server_max_body_mb", 32)
	v.SetDefault("server_timeout_sec", 30)
	defs, err := heuristicDefaults()
	if err != nil {
		return nil, err
	}
	for k, val := range defs {
		v.SetDefault("heuristics."+k, val)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Heuristics = c.Heuristics.Normalize()
	if !validFormat(c.Format) {
		return nil, fmt.Errorf("invalid format %q (use %s)", c.Format, strings.Join(Formats, ", "))
	}
	return &c, nil
}

func validFormat(f string) bool {
	for _, ok := range Formats {
		if f == ok {
			return true
		}
	}
	return false
}

// Keys lists every settable key, heuristics included, sorted.
func Keys() []string {
	keys := []string{"log_level", "format", "max_rows", "sample_rows", "delimiter",
		"server_addr", "server_max_body_mb", "server_timeout_sec"}
	rt := reflect.TypeOf(heuristics.Config{})
	for i := 0; i < rt.NumField(); i++ {
		if name := yamlName(rt.Field(i)); name != "" {
			keys = append(keys, "heuristics."+name)
		}
	}
	sort.Strings(keys)
	return keys
}

// Set assigns one key from its string form. Heuristic thresholds use the
// "heuristics.<name>" form.
func Set(c *Global, key, val string) error {
	atoi := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	var err error
	switch key {
	case "log_level":
		switch strings.ToLower(val) {
		case "error", "warn", "info", "debug":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use error, warn, info or debug)", val)
		}
	case "format":
		if !validFormat(val) {
			return fmt.Errorf("invalid format: %s (use %s)", val, strings.Join(Formats, ", "))
		}
		c.Format = val
	case "max_rows":
		c.MaxRows, err = atoi()
	case "sample_rows":
		c.SampleRows, err = atoi()
	case "delimiter":
		c.Delimiter = val
	case "server_addr":
		c.ServerAddr = val
	case "server_max_body_mb":
		c.ServerMaxBodyMB, err = atoi()
	case "server_timeout_sec":
		c.ServerTimeoutSec, err = atoi()
	default:
		name, ok := strings.CutPrefix(key, "heuristics.")
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		return setHeuristic(&c.Heuristics, name, val)
	}
	return err
}

func setHeuristic(h *heuristics.Config, name, val string) error {
	rv := reflect.ValueOf(h).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		if yamlName(rt.Field(i)) != name {
			continue
		}
		f := rv.Field(i)
		switch f.Kind() {
		case reflect.Int:
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid int for heuristics.%s: %v", name, val)
			}
			f.SetInt(int64(n))
		case reflect.Float64:
			x, err := strconv.ParseFloat(val, 64)
			if err != nil || x <= 0 {
				return fmt.Errorf("invalid float for heuristics.%s: %v", name, val)
			}
			f.SetFloat(x)
		default:
			return fmt.Errorf("heuristics.%s has unsupported type %s", name, f.Kind())
		}
		return nil
	}
	return fmt.Errorf("%w: heuristics.%s", ErrUnknownKey, name)
}

func yamlName(f reflect.StructField) string {
	tag, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
	return tag
}
