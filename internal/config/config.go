package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/winstoncvm/jcal/internal/layout"
	"github.com/winstoncvm/jcal/internal/view"
)

// Config is the root configuration for jcal, stored in ~/.jcal/config.yaml.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Display DisplayConfig `mapstructure:"display"`
	Layout  LayoutConfig  `mapstructure:"layout"`
	Outlook OutlookConfig `mapstructure:"outlook"`
}

// StorageConfig locates the record files.
type StorageConfig struct {
	// Path is the data directory; a leading ~ is expanded.
	Path string `mapstructure:"path"`
}

// DisplayConfig caps how many titles a calendar cell lists.
type DisplayConfig struct {
	MonthCap int `mapstructure:"month_cap"`
	WeekCap  int `mapstructure:"week_cap"`
}

// LayoutConfig holds day timeline row sizes in pixels.
type LayoutConfig struct {
	DefaultRow  int `mapstructure:"default_row"`
	ExpandedRow int `mapstructure:"expanded_row"`
	CompactRow  int `mapstructure:"compact_row"`
	GoalBand    int `mapstructure:"goal_band"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar import settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `mapstructure:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `mapstructure:"client_id"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin"). Empty = UTC.
	Timezone string `mapstructure:"timezone"`
}

const (
	// DefaultTenantID is the Microsoft "common" tenant (supports personal and
	// multi-tenant organisational accounts without additional registration).
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID.
	// It supports device code flow without a client secret and requires no
	// app registration.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	// DefaultDataPath is where records live unless storage.path says otherwise.
	DefaultDataPath = "~/.jcal/data"

	envPrefix  = "JCAL"
	configName = "config"
	configType = "yaml"
)

// envKeyReplacer maps nested keys to env names: display.month_cap -> JCAL_DISPLAY_MONTH_CAP.
var envKeyReplacer = strings.NewReplacer(".", "_")

// configTemplate is the annotated config written on first run.
const configTemplate = `# jcal configuration – ~/.jcal/config.yaml
#
# All settings are optional; the defaults shown below are what jcal uses
# when a key is missing. Every key can also be set through the environment,
# e.g. JCAL_DISPLAY_MONTH_CAP=3.

storage:
  # Directory holding entries/, goals.json and routines.json.
  path: ~/.jcal/data

display:
  # Titles listed per day in the month grid before "+N more".
  month_cap: 2
  # Titles listed per day in the week view.
  week_cap: 5

layout:
  # Day timeline row heights in pixels. One terminal line is compact_row pixels.
  default_row: 40
  expanded_row: 80
  compact_row: 20
  # Height of each goal band stacked above the timeline.
  goal_band: 45

outlook:
  # Azure AD tenant ID: "common" or your organisation's tenant GUID.
  tenant_id: common
  # Azure application (client) ID used for the OAuth2 device code flow.
  client_id: 04b07795-8542-4c4a-95af-30b2c573d5ab
  # IANA timezone for calendar event times, e.g. "Europe/Berlin". Empty = UTC.
  timezone: ""
`

// Dir returns ~/.jcal, or $JCAL_HOME when set.
func Dir() (string, error) {
	if override := os.Getenv("JCAL_HOME"); override != "" {
		return override, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".jcal"), nil
}

func setDefaults(v *viper.Viper) {
	l := layout.DefaultConfig()
	lim := view.DefaultLimits()

	v.SetDefault("storage.path", DefaultDataPath)
	v.SetDefault("display.month_cap", lim.MonthCell)
	v.SetDefault("display.week_cap", lim.WeekCell)
	v.SetDefault("layout.default_row", l.DefaultRow)
	v.SetDefault("layout.expanded_row", l.ExpandedRow)
	v.SetDefault("layout.compact_row", l.CompactRow)
	v.SetDefault("layout.goal_band", l.GoalBand)
	v.SetDefault("outlook.tenant_id", DefaultTenantID)
	v.SetDefault("outlook.client_id", DefaultClientID)
	v.SetDefault("outlook.timezone", "")
}

// Load reads ~/.jcal/config.yaml, creating it with annotated defaults on first run.
func Load() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(dir)
}

// LoadFrom reads config.yaml from dir. Missing keys fall back to defaults and
// JCAL_* environment variables override the file.
func LoadFrom(dir string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config in %s: %w\nTip: delete the file to regenerate defaults", dir, err)
		}
		// First run: write the annotated template so users can discover options.
		path := filepath.Join(dir, configName+"."+configType)
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	expanded, err := homedir.Expand(cfg.Storage.Path)
	if err != nil {
		return Config{}, fmt.Errorf("expanding storage.path %q: %w", cfg.Storage.Path, err)
	}
	cfg.Storage.Path = expanded
	cfg.sanitize()
	return cfg, nil
}

// sanitize replaces non-positive row sizes with defaults so a bad config
// can never produce a zero-height timeline.
func (c *Config) sanitize() {
	d := layout.DefaultConfig()
	fix := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	fix(&c.Layout.DefaultRow, d.DefaultRow)
	fix(&c.Layout.ExpandedRow, d.ExpandedRow)
	fix(&c.Layout.CompactRow, d.CompactRow)
	fix(&c.Layout.GoalBand, d.GoalBand)
	if c.Outlook.TenantID == "" {
		c.Outlook.TenantID = DefaultTenantID
	}
	if c.Outlook.ClientID == "" {
		c.Outlook.ClientID = DefaultClientID
	}
}

// LayoutConfig converts the layout section for the timeline engine.
func (c Config) LayoutConfig() layout.Config {
	return layout.Config{
		DefaultRow:  c.Layout.DefaultRow,
		ExpandedRow: c.Layout.ExpandedRow,
		CompactRow:  c.Layout.CompactRow,
		GoalBand:    c.Layout.GoalBand,
	}
}

// Limits converts the display section for the view composer.
func (c Config) Limits() view.Limits {
	return view.Limits{MonthCell: c.Display.MonthCap, WeekCell: c.Display.WeekCap}
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
