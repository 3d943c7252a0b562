// Package games provides the closed catalog of rateable games. The catalog
// is maintained outside this service; it is loaded from a JSON file when one
// is configured and falls back to a built-in list.
package games

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Catalog is the closed set of game names a rate may reference.
type Catalog struct {
	byKey map[string]string // lowercased name -> catalog casing
	names []string
}

// defaultNames seeds the catalog when no external file is configured.
var defaultNames = []string{
	"Elden Ring",
	"Baldur's Gate 3",
	"The Legend of Zelda: Tears of the Kingdom",
	"God of War Ragnarok",
	"Hades II",
	"Hollow Knight: Silksong",
	"Stardew Valley",
	"Cyberpunk 2077",
	"The Witcher 3: Wild Hunt",
	"Red Dead Redemption 2",
	"Grand Theft Auto V",
	"Minecraft",
	"Fortnite",
	"Apex Legends",
	"Call of Duty: Modern Warfare III",
	"Halo Infinite",
	"Forza Horizon 5",
	"Gran Turismo 7",
	"Spider-Man 2",
	"The Last of Us Part II",
	"Horizon Forbidden West",
	"Final Fantasy VII Rebirth",
	"Persona 5 Royal",
	"Sekiro: Shadows Die Twice",
	"Dark Souls III",
	"Animal Crossing: New Horizons",
	"Super Mario Odyssey",
	"Mario Kart 8 Deluxe",
	"Celeste",
	"Disco Elysium",
	"Helldivers 2",
	"Starfield",
	"Diablo IV",
	"Overwatch 2",
	"Rocket League",
	"Valorant",
	"Counter-Strike 2",
	"League of Legends",
	"Dota 2",
	"Terraria",
}

// New builds a catalog from the given names, deduplicating case-insensitively
// with first-seen casing.
func New(names []string) *Catalog {
	c := &Catalog{byKey: make(map[string]string, len(names))}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, seen := c.byKey[key]; seen {
			continue
		}
		c.byKey[key] = strings.TrimSpace(name)
		c.names = append(c.names, strings.TrimSpace(name))
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(defaultNames)
}

// Load reads a catalog from a JSON array of names.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read games file: %w", err)
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("parse games file: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("games file %s lists no games", path)
	}
	return New(names), nil
}

// Resolve matches a submitted name case-insensitively and returns the
// catalog's canonical casing.
func (c *Catalog) Resolve(name string) (string, bool) {
	canonical, ok := c.byKey[strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}

// Names lists the catalog in insertion order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len reports how many games the catalog holds.
func (c *Catalog) Len() int {
	return len(c.names)
}
