package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/alpacahq/marketcal/calendar"
	"github.com/alpacahq/marketcal/utils/log"
)

const (
	// EnvConfigDir points at a directory of extra bundles.
	EnvConfigDir = "MARKETCAL_CONFIG_DIR"
	// EnvLogLevel overrides the log level.
	EnvLogLevel = "MARKETCAL_LOG_LEVEL"
)

// Load reads a bundle file. Files ending in .json are parsed as JSON and
// everything else as YAML.
func Load(path string) (*Bundle, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read bundle %s", path)
	}
	var b *Bundle
	if strings.EqualFold(filepath.Ext(path), ".json") {
		b, err = ParseJSON(data)
	} else {
		b, err = Parse(data)
	}
	return b, errors.Wrap(err, path)
}

// LoadDir reads every .yml, .yaml and .json bundle in dir, in name order.
func LoadDir(dir string) ([]*Bundle, error) {
	entries, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read bundle directory %s", dir)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yml", ".yaml", ".json":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	bundles := make([]*Bundle, 0, len(names))
	for _, name := range names {
		b, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	return bundles, nil
}

// Register builds every bundle and adds it to reg.
func Register(reg *calendar.Registry, bundles ...*Bundle) error {
	for _, b := range bundles {
		c, err := b.Build()
		if err != nil {
			return err
		}
		if err := reg.Register(c); err != nil {
			return err
		}
		log.Info("registered calendar %s (%s)", c.Name(), c.Span())
	}
	return nil
}

// Env holds settings taken from the environment.
type Env struct {
	ConfigDir string
	LogLevel  string
}

// LoadEnv reads the environment after loading any of the given dotenv
// files that exist. Variables already set are not overwritten.
func LoadEnv(files ...string) (Env, error) {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return Env{}, errors.Wrap(err, "failed to load dotenv")
		}
	}
	return Env{
		ConfigDir: os.Getenv(EnvConfigDir),
		LogLevel:  os.Getenv(EnvLogLevel),
	}, nil
}

// Apply sets the process log level from the environment.
func (e Env) Apply() {
	if e.LogLevel != "" {
		log.SetLevel(log.ParseLevel(e.LogLevel))
	}
}
