package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/habitdash/internal/dashboard"
)

// Global configuration structure.
type Global struct {
	DataPath      string `mapstructure:"data_path" yaml:"data_path"`
	Addr          string `mapstructure:"addr" yaml:"addr"`
	HelloAddr     string `mapstructure:"hello_addr" yaml:"hello_addr"`
	SessionSecret string `mapstructure:"session_secret" yaml:"session_secret"`
	Watch         bool   `mapstructure:"watch" yaml:"watch"`

	// Leading-row caps for the heavy charts
	Limits dashboard.Limits `mapstructure:"limits" yaml:"limits"`
}

const (
	envPrefix = "HABITDASH"
	dirName   = ".habitdash"
)

// DefaultPath returns ~/.habitdash/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.habitdash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	// The file may hold the session secret.
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Defaults returns the configuration used when no file or env var is set.
func Defaults() *Global {
	return &Global{
		DataPath:  "data/smoking_driking_dataset_Ver01.csv",
		Addr:      "127.0.0.1:8501",
		HelloAddr: "127.0.0.1:8080",
		Limits:    dashboard.DefaultLimits(),
	}
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults; command flags are applied later
// by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Defaults()
	lim := def.Limits
	v.SetDefault("data_path", def.DataPath)
	v.SetDefault("addr", def.Addr)
	v.SetDefault("hello_addr", def.HelloAddr)
	v.SetDefault("session_secret", "")
	v.SetDefault("watch", false)
	v.SetDefault("limits.box_rows", lim.BoxRows)
	v.SetDefault("limits.sbp_rows", lim.SBPRows)
	v.SetDefault("limits.dbp_rows", lim.DBPRows)
	v.SetDefault("limits.sex_chole_rows", lim.SexCholeRows)
	v.SetDefault("limits.smk_chole_rows", lim.SmkCholeRows)
	v.SetDefault("limits.organs_rows", lim.OrgansRows)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, dirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Keys lists the settable keys in display order.
var Keys = []string{
	"data_path", "addr", "hello_addr", "session_secret", "watch",
	"limits.box_rows", "limits.sbp_rows", "limits.dbp_rows",
	"limits.sex_chole_rows", "limits.smk_chole_rows", "limits.organs_rows",
}

// Set assigns one key from its string form.
func (c *Global) Set(key, val string) error {
	switch key {
	case "data_path":
		c.DataPath = val
	case "addr":
		c.Addr = val
	case "hello_addr":
		c.HelloAddr = val
	case "session_secret":
		c.SessionSecret = val
	case "watch":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for watch: %v", val)
		}
		c.Watch = b
	default:
		field := c.limitField(key)
		if field == nil {
			return fmt.Errorf("unknown key: %s", key)
		}
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid positive int for %s: %v", key, val)
		}
		*field = i
	}
	return nil
}

// Get returns the string form of one key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "data_path":
		return c.DataPath, nil
	case "addr":
		return c.Addr, nil
	case "hello_addr":
		return c.HelloAddr, nil
	case "session_secret":
		return mask(c.SessionSecret), nil
	case "watch":
		return strconv.FormatBool(c.Watch), nil
	}
	if field := c.limitField(key); field != nil {
		return strconv.Itoa(*field), nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

func (c *Global) limitField(key string) *int {
	switch key {
	case "limits.box_rows":
		return &c.Limits.BoxRows
	case "limits.sbp_rows":
		return &c.Limits.SBPRows
	case "limits.dbp_rows":
		return &c.Limits.DBPRows
	case "limits.sex_chole_rows":
		return &c.Limits.SexCholeRows
	case "limits.smk_chole_rows":
		return &c.Limits.SmkCholeRows
	case "limits.organs_rows":
		return &c.Limits.OrgansRows
	}
	return nil
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
