// Package config loads database and entity definitions from a YAML file, so
// deployments can declare their tables without code changes.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Skryldev/entitykit/db"
	"github.com/Skryldev/entitykit/entity"
)

// File is the root of the YAML document.
type File struct {
	Database Database `yaml:"database"`
	Entities []Entity `yaml:"entities"`
}

// Database mirrors db.Config with string durations ("5m", "10s").
type Database struct {
	Driver          string `yaml:"driver"`
	DSN             string `yaml:"dsn"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime string `yaml:"conn_max_idle_time"`
	DefaultTimeout  string `yaml:"default_timeout"`
}

// Entity declares one entity service.
type Entity struct {
	Name            string   `yaml:"name"`
	Table           string   `yaml:"table"`
	PrimaryKey      []string `yaml:"primary_key"`
	Columns         []string `yaml:"columns"`
	SystemColumns   []string `yaml:"system_columns"`
	DisableAuditing bool     `yaml:"disable_auditing"`
	SkipUniqueCheck bool     `yaml:"skip_unique_check"`
}

// Load reads and validates the YAML file at path.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("entitykit/config: read %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("entitykit/config: parse %s: %w", path, err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	if f.Database.Driver == "" {
		return fmt.Errorf("entitykit/config: database.driver is required")
	}
	if f.Database.DSN == "" {
		return fmt.Errorf("entitykit/config: database.dsn is required")
	}
	seen := make(map[string]struct{}, len(f.Entities))
	for i, e := range f.Entities {
		if e.Name == "" {
			return fmt.Errorf("entitykit/config: entities[%d].name is required", i)
		}
		if _, dup := seen[e.Name]; dup {
			return fmt.Errorf("entitykit/config: duplicate entity %q", e.Name)
		}
		seen[e.Name] = struct{}{}
		if len(e.PrimaryKey) == 0 {
			return fmt.Errorf("entitykit/config: entity %q: primary_key is required", e.Name)
		}
	}
	return nil
}

// DBConfig converts the database section to a db.Config.
func (d Database) DBConfig() (db.Config, error) {
	cfg := db.Config{
		DSN:          d.DSN,
		DriverName:   d.Driver,
		MaxOpenConns: d.MaxOpenConns,
		MaxIdleConns: d.MaxIdleConns,
	}
	var err error
	if cfg.ConnMaxLifetime, err = parseDuration("conn_max_lifetime", d.ConnMaxLifetime); err != nil {
		return db.Config{}, err
	}
	if cfg.ConnMaxIdleTime, err = parseDuration("conn_max_idle_time", d.ConnMaxIdleTime); err != nil {
		return db.Config{}, err
	}
	if cfg.DefaultTimeout, err = parseDuration("default_timeout", d.DefaultTimeout); err != nil {
		return db.Config{}, err
	}
	return cfg, nil
}

// ServiceConfig converts an entity declaration to an entity.Config bound to
// the given dialect.
func (e Entity) ServiceConfig(dialect db.Dialect) entity.Config {
	return entity.Config{
		EntityName:        e.Name,
		TableName:         e.Table,
		PrimaryKeyColumns: e.PrimaryKey,
		DataColumns:       e.Columns,
		SystemColumns:     e.SystemColumns,
		DisableAuditing:   e.DisableAuditing,
		SkipUniqueCheck:   e.SkipUniqueCheck,
		Dialect:           dialect,
	}
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("entitykit/config: database.%s: %w", field, err)
	}
	return d, nil
}
