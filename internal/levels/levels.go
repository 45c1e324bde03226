// Package levels holds the fixed, ordered list of blueprint levels.
package levels

import (
	"fmt"

	"block-quest/internal/blueprint"
)

// builtin are the level blueprints, in play order. Each is a 16x16 PNG.
var builtin = []blueprint.DataURL{
	"data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAABAAAAAQCAIAAACQkWg2AAAAHUlEQVR4nGP4//8/AwMD8SQDSapB5KgNozYMGRsA2Vd+kCxBIfoAAAAASUVORK5CYII=",
	"data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAABAAAAAQCAIAAACQkWg2AAAAHElEQVR4nGNgYGD4//8/CSRpqiFg1IZRG4aGDQDZV36Q2LNWkwAAAABJRU5ErkJggg==",
	"data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAABAAAAAQCAIAAACQkWg2AAAAHUlEQVR4nGP4//8/AwMD8SQDSapB5KgNozYMGRsA2Vd+kCxBIfoAAAAASUVORK5CYII=",
	"data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAABAAAAAQCAIAAACQkWg2AAAAHElEQVR4nGNgYGD4//8/CSRpqiFg1IZRG4aGDQDZV36Q2LNWkwAAAABJRU5ErkJggg==",
	"data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAABAAAAAQCAIAAACQkWg2AAAAHUlEQVR4nGP4//8/AwMD8SQDSapB5KgNozYMGRsA2Vd+kCxBIfoAAAAASUVORK5CYII=",
}

// Catalog is an ordered list of blueprint sources.
type Catalog struct {
	sources []blueprint.Source
}

// Builtin returns the levels shipped with the game.
func Builtin() *Catalog {
	srcs := make([]blueprint.Source, len(builtin))
	for i, u := range builtin {
		srcs[i] = u
	}
	return &Catalog{sources: srcs}
}

// New builds a catalog from explicit sources, mainly for tests and tools.
func New(sources ...blueprint.Source) *Catalog {
	return &Catalog{sources: sources}
}

// Count returns the number of levels.
func (c *Catalog) Count() int { return len(c.sources) }

// Source returns the blueprint source for level i.
func (c *Catalog) Source(i int) (blueprint.Source, bool) {
	if i < 0 || i >= len(c.sources) {
		return nil, false
	}
	return c.sources[i], true
}

// Name is the player-facing label for level i.
func Name(i int) string {
	return fmt.Sprintf("Level %d", i+1)
}

// Validate decodes every level and reports the first failure.
func (c *Catalog) Validate() ([]*blueprint.Blueprint, error) {
	out := make([]*blueprint.Blueprint, len(c.sources))
	for i, src := range c.sources {
		bp, err := src.Decode()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", Name(i), err)
		}
		out[i] = bp
	}
	return out, nil
}
