// Package strategies lists the bot strategies offered on the trade screen.
// The mock bot does not read them; they are labels for the selector and the journal.
package strategies

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Strategy is one selectable entry
type Strategy struct {
	Key         string `yaml:"key" json:"key"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Catalog is an ordered set of strategies; the first one is the default
type Catalog struct {
	Strategies []Strategy `yaml:"strategies" json:"strategies"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{Strategies: []Strategy{
		{Key: "momentum", Name: "Momentum", Description: "Rides strong moves in the direction of the trend."},
		{Key: "breakout", Name: "Breakout", Description: "Waits for price to clear a recent range."},
		{Key: "mean-reversion", Name: "Mean Reversion", Description: "Fades stretched moves back toward the average."},
	}}
}

// Load reads a catalog from a YAML file. An empty path returns Default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open strategies: %w", err)
	}
	defer file.Close()

	var c Catalog
	if err := yaml.NewDecoder(file).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode strategies: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate requires at least one strategy and non-empty unique keys.
func (c *Catalog) Validate() error {
	if len(c.Strategies) == 0 {
		return errors.New("strategies: catalog is empty")
	}
	seen := make(map[string]bool, len(c.Strategies))
	for i, s := range c.Strategies {
		key := strings.TrimSpace(s.Key)
		if key == "" {
			return fmt.Errorf("strategies: entry %d has no key", i)
		}
		if seen[key] {
			return fmt.Errorf("strategies: duplicate key %q", key)
		}
		seen[key] = true
	}
	return nil
}

// Lookup finds a strategy by key. An empty key resolves to the default.
func (c *Catalog) Lookup(key string) (Strategy, bool) {
	key = strings.TrimSpace(key)
	if key == "" && len(c.Strategies) > 0 {
		return c.Strategies[0], true
	}
	for _, s := range c.Strategies {
		if s.Key == key {
			return s, true
		}
	}
	return Strategy{}, false
}
