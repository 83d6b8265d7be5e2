// Package config handles loading p2gan.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/tensorworks-llc/p2gan/calendar"
	"github.com/tensorworks-llc/p2gan/internal/paths"
)

// ProjectFileName is the per-project configuration file.
const ProjectFileName = "p2gan.toml"

// EnvPrefix prefixes every environment override, e.g. P2GAN_LOG_LEVEL.
const EnvPrefix = "P2GAN"

// Config represents the p2gan.toml configuration file.
type Config struct {
	Project      Project      `toml:"project"`
	Calendar     Calendar     `toml:"calendar"`
	Stakeholders Stakeholders `toml:"stakeholders"`
	Log          Log          `toml:"log"`
}

// Project holds defaults applied to every generated .gan file.
type Project struct {
	Locale  string `toml:"locale"`
	Version string `toml:"version"`
	Company string `toml:"company"`
}

// Calendar configures the working calendar used for date resolution.
type Calendar struct {
	// WorkingDays lists weekday names such as "mon". Empty means Monday to Friday.
	WorkingDays []string `toml:"working-days"`

	// Holidays are YYYY-MM-DD dates that are never working days.
	Holidays []string `toml:"holidays"`

	// IncludeWeekends counts every calendar day as a working day.
	IncludeWeekends bool `toml:"include-weekends"`
}

// Stakeholders configures the stakeholder directory.
type Stakeholders struct {
	// Path is the directory file; empty means the default state location.
	Path string `toml:"path"`
}

// Log configures diagnostics output.
type Log struct {
	Level string `toml:"level"`

	// File enables rotating file output instead of stderr.
	File string `toml:"file"`
}

// env holds the environment overrides. Pointer fields distinguish unset
// variables from empty ones.
type env struct {
	Locale       *string `split_words:"true"`
	Company      *string `split_words:"true"`
	LogLevel     *string `split_words:"true"`
	LogFile      *string `split_words:"true"`
	Stakeholders *string `split_words:"true"`
}

// Load loads configuration from the project directory and the global config
// file, then applies P2GAN_* environment overrides. Returns an empty config
// if no config files exist.
func Load(projectDir string) (*Config, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(projectDir, ProjectFileName))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)
	if err := applyEnv(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func globalConfigPath() (string, error) {
	dir, err := paths.DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.Project.Locale = mergeString(projectMeta.IsDefined("project", "locale"), projectCfg.Project.Locale, globalCfg.Project.Locale)
	merged.Project.Version = mergeString(projectMeta.IsDefined("project", "version"), projectCfg.Project.Version, globalCfg.Project.Version)
	merged.Project.Company = mergeString(projectMeta.IsDefined("project", "company"), projectCfg.Project.Company, globalCfg.Project.Company)
	merged.Stakeholders.Path = mergeString(projectMeta.IsDefined("stakeholders", "path"), projectCfg.Stakeholders.Path, globalCfg.Stakeholders.Path)
	merged.Log.Level = mergeString(projectMeta.IsDefined("log", "level"), projectCfg.Log.Level, globalCfg.Log.Level)
	merged.Log.File = mergeString(projectMeta.IsDefined("log", "file"), projectCfg.Log.File, globalCfg.Log.File)

	merged.Calendar.WorkingDays = mergeList(projectMeta.IsDefined("calendar", "working-days"), globalMeta.IsDefined("calendar", "working-days"),
		projectCfg.Calendar.WorkingDays, globalCfg.Calendar.WorkingDays)
	merged.Calendar.Holidays = mergeList(projectMeta.IsDefined("calendar", "holidays"), globalMeta.IsDefined("calendar", "holidays"),
		projectCfg.Calendar.Holidays, globalCfg.Calendar.Holidays)
	merged.Calendar.IncludeWeekends = globalCfg.Calendar.IncludeWeekends
	if projectMeta.IsDefined("calendar", "include-weekends") {
		merged.Calendar.IncludeWeekends = projectCfg.Calendar.IncludeWeekends
	}

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}

func mergeList(projectDefined, globalDefined bool, projectValue, globalValue []string) []string {
	if projectDefined {
		return append([]string(nil), projectValue...)
	}
	if globalDefined {
		return append([]string(nil), globalValue...)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var overrides env
	if err := envconfig.Process(EnvPrefix, &overrides); err != nil {
		return fmt.Errorf("load %s_* environment: %w", EnvPrefix, err)
	}
	set := func(dst *string, value *string) {
		if value != nil {
			*dst = strings.TrimSpace(*value)
		}
	}
	set(&cfg.Project.Locale, overrides.Locale)
	set(&cfg.Project.Company, overrides.Company)
	set(&cfg.Log.Level, overrides.LogLevel)
	set(&cfg.Log.File, overrides.LogFile)
	set(&cfg.Stakeholders.Path, overrides.Stakeholders)
	return nil
}

// WorkingCalendar builds the calendar described by the [calendar] section.
func (c *Config) WorkingCalendar() (calendar.Calendar, error) {
	week, err := calendar.ParseWorkWeek(c.Calendar.WorkingDays)
	if err != nil {
		return calendar.Calendar{}, fmt.Errorf("calendar working-days: %w", err)
	}
	cal := calendar.Calendar{WorkingDays: week, IncludeWeekends: c.Calendar.IncludeWeekends}
	for _, value := range c.Calendar.Holidays {
		day, err := calendar.Parse(value)
		if err != nil {
			return calendar.Calendar{}, fmt.Errorf("calendar holidays: %w", err)
		}
		cal.Holidays = append(cal.Holidays, day)
	}
	return cal, nil
}

// StakeholdersPath returns the configured directory file or the default one.
func (c *Config) StakeholdersPath() (string, error) {
	return paths.ResolveWithDefault(c.Stakeholders.Path, paths.DefaultStakeholdersPath)
}
