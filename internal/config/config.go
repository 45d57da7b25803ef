// Package config loads searchq.yaml: named connections and the per-model
// search/sort definitions.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/searchq/searchq/searchq"
)

// FileName is the default config file name.
const FileName = "searchq.yaml"

// FileNameAlt is the alternate config file name.
const FileNameAlt = "searchq.yml"

// Connection is one named database connection.
type Connection struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
	Prefix string `koanf:"prefix"`
}

// JoinDef declares one join in a model definition.
type JoinDef struct {
	LeftKey     string `koanf:"left_key"`
	RightKey    string `koanf:"right_key"`
	ExtraColumn string `koanf:"extra_column"`
	ExtraValue  string `koanf:"extra_value"`
}

// ModelDef is the on-disk form of a model's search/sort configuration.
type ModelDef struct {
	Table          string             `koanf:"table"`
	PrimaryKey     string             `koanf:"primary_key"`
	RelevanceField string             `koanf:"relevance_field"`
	SearchColumns  map[string]float64 `koanf:"search_columns"`
	SortColumns    []string           `koanf:"sort_columns"`
	Joins          map[string]JoinDef `koanf:"joins"`
	GroupBy        []string           `koanf:"group_by"`
	TableColumns   []string           `koanf:"table_columns"`
}

// Project is the loaded configuration.
type Project struct {
	Connection  string                `koanf:"connection"`
	Connections map[string]Connection `koanf:"connections"`
	Models      map[string]ModelDef   `koanf:"models"`
}

// Load reads and unmarshals the config file at path.
func Load(path string) (*Project, error) {
	// Column references contain dots ("users.name"), so the path delimiter
	// must be something that never appears in a key.
	k := koanf.New("::")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	var p Project
	if err := k.Unmarshal("", &p); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &p, nil
}

// LoadFromDir looks for searchq.yaml or searchq.yml in dir. A missing file
// is not an error; it returns nil, nil.
func LoadFromDir(dir string) (*Project, error) {
	for _, name := range []string{FileName, FileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return nil, nil
}

// ActiveConnection resolves the selected connection.
func (p *Project) ActiveConnection() (Connection, error) {
	name := p.Connection
	if name == "" {
		name = "default"
	}
	conn, ok := p.Connections[name]
	if !ok {
		return Connection{}, fmt.Errorf("connection %q is not configured", name)
	}
	return conn, nil
}

// Model builds the validated searchq model for a configured name.
func (p *Project) Model(name string) (*searchq.Model, error) {
	def, ok := p.Models[name]
	if !ok {
		return nil, fmt.Errorf("model %q is not configured", name)
	}
	conn, err := p.ActiveConnection()
	if err != nil {
		return nil, err
	}
	return searchq.New(def.ToConfig(), conn.Driver, conn.Prefix)
}

// ToConfig converts the on-disk definition to the library configuration.
func (d ModelDef) ToConfig() searchq.Config {
	cfg := searchq.Config{
		Table:          d.Table,
		PrimaryKey:     d.PrimaryKey,
		RelevanceField: d.RelevanceField,
		SearchColumns:  d.SearchColumns,
		SortColumns:    d.SortColumns,
		GroupBy:        d.GroupBy,
		TableColumns:   d.TableColumns,
	}
	if len(d.Joins) > 0 {
		cfg.Joins = make(map[string]searchq.Join, len(d.Joins))
		for table, j := range d.Joins {
			join := searchq.Join{LeftKey: j.LeftKey, RightKey: j.RightKey}
			if j.ExtraColumn != "" {
				join.Extra = &searchq.JoinEquality{Column: j.ExtraColumn, Value: j.ExtraValue}
			}
			cfg.Joins[table] = join
		}
	}
	return cfg
}
