// Package staticcontent serves the genre template packs. A built-in
// post-apocalypse pack ships in the binary; a root directory of JSON pack
// files can extend or override it without a rebuild.
package staticcontent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"talespin/internal/domain/adventure"
)

type pack struct {
	MainQuests []string `json:"main_quests"`
	SideEvents []string `json:"side_events"`
}

type Provider struct {
	// Root is an optional directory of <genre>.json pack files and an
	// optional personalities.json. Empty means built-ins only.
	Root string

	once          sync.Once
	loadErr       error
	packs         map[string]pack
	personalities []adventure.Personality
}

func (p *Provider) load() {
	p.packs = map[string]pack{}
	for genre, pk := range builtinPacks {
		p.packs[genre] = pk
	}
	p.personalities = append([]adventure.Personality(nil), builtinPersonalities...)

	if p.Root == "" {
		return
	}
	entries, err := os.ReadDir(p.Root)
	if err != nil {
		p.loadErr = fmt.Errorf("read content dir: %w", err)
		return
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(p.Root, name))
		if err != nil {
			p.loadErr = fmt.Errorf("read pack %s: %w", name, err)
			return
		}
		if name == "personalities.json" {
			var pool []adventure.Personality
			if err := json.Unmarshal(raw, &pool); err != nil {
				p.loadErr = fmt.Errorf("parse %s: %w", name, err)
				return
			}
			p.personalities = pool
			continue
		}
		var pk pack
		if err := json.Unmarshal(raw, &pk); err != nil {
			p.loadErr = fmt.Errorf("parse pack %s: %w", name, err)
			return
		}
		p.packs[strings.TrimSuffix(name, ".json")] = pk
	}
}

func (p *Provider) ready() error {
	p.once.Do(p.load)
	return p.loadErr
}

func (p *Provider) Genres(_ context.Context) ([]string, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	genres := make([]string, 0, len(p.packs))
	for g := range p.packs {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	// The default genre sorts first so new sessions without an explicit
	// genre land on the shipped pack.
	for i, g := range genres {
		if g == DefaultGenre && i != 0 {
			genres = append([]string{g}, append(genres[:i], genres[i+1:]...)...)
			break
		}
	}
	return genres, nil
}

func (p *Provider) MainQuests(_ context.Context, genre string) ([]string, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	return append([]string(nil), p.packs[genre].MainQuests...), nil
}

func (p *Provider) SideEvents(_ context.Context, genre string) ([]string, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	return append([]string(nil), p.packs[genre].SideEvents...), nil
}

func (p *Provider) Personalities(_ context.Context) ([]adventure.Personality, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	return append([]adventure.Personality(nil), p.personalities...), nil
}
