// Package exchanges ships the built-in exchange bundles.
package exchanges

import (
	"embed"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/alpacahq/marketcal/calendar"
	"github.com/alpacahq/marketcal/config"
	"github.com/alpacahq/marketcal/utils/log"

	// zone data for hosts without a system tz database
	_ "time/tzdata"
)

//go:embed bundles/*.yml
var bundles embed.FS

var (
	once     sync.Once
	registry *calendar.Registry
	buildErr error
)

// Names lists the built-in exchanges.
func Names() []string {
	entries, err := bundles.ReadDir("bundles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		b, err := Bundle(e.Name())
		if err != nil {
			continue
		}
		names = append(names, b.Name)
	}
	sort.Strings(names)
	return names
}

// Bundle parses one embedded bundle file, e.g. "bvmf.yml".
func Bundle(file string) (*config.Bundle, error) {
	data, err := bundles.ReadFile(path.Join("bundles", file))
	if err != nil {
		return nil, errors.Wrapf(err, "no built-in bundle %s", file)
	}
	b, err := config.Parse(data)
	return b, errors.Wrap(err, file)
}

// Bundles parses every embedded bundle.
func Bundles() ([]*config.Bundle, error) {
	entries, err := bundles.ReadDir("bundles")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list built-in bundles")
	}
	out := make([]*config.Bundle, 0, len(entries))
	for _, e := range entries {
		b, err := Bundle(e.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// Load builds a fresh registry holding the built-in calendars plus every
// bundle found in dir. A bundle in dir replaces the built-in of the same
// name. An empty dir loads the built-ins only.
func Load(dir string) (*calendar.Registry, error) {
	bs, err := Bundles()
	if err != nil {
		return nil, err
	}
	if dir != "" {
		extra, err := config.LoadDir(dir)
		if err != nil {
			return nil, err
		}
		byName := map[string]int{}
		for i, b := range bs {
			byName[strings.ToUpper(b.Name)] = i
		}
		for _, b := range extra {
			if i, ok := byName[strings.ToUpper(b.Name)]; ok {
				log.Info("bundle %s from %s replaces the built-in", b.Name, dir)
				bs[i] = b
				continue
			}
			byName[strings.ToUpper(b.Name)] = len(bs)
			bs = append(bs, b)
		}
	}
	reg := calendar.NewRegistry()
	if err := config.Register(reg, bs...); err != nil {
		return nil, err
	}
	return reg, nil
}

// Registry builds the built-in calendars on first use and returns the
// shared registry.
func Registry() (*calendar.Registry, error) {
	once.Do(func() {
		var bs []*config.Bundle
		if bs, buildErr = Bundles(); buildErr != nil {
			return
		}
		reg := calendar.NewRegistry()
		if buildErr = config.Register(reg, bs...); buildErr != nil {
			return
		}
		registry = reg
	})
	return registry, buildErr
}
