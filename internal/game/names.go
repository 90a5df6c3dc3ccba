/*
Package game
File: names.go
Description:
    System name generation. The pool mixes curated names with
    prefix+suffix and name+number combinations, deduplicated until the
    requested number of unique names is reached.
*/

package game

import (
	"fmt"
	"math/rand/v2"
)

var curatedNames = []string{
	"Vega Prime", "Kepler's Rest", "Nyx", "Caelum", "Draconis",
	"Forge", "Hadal Deep", "Meridian", "Obsidian", "Solis",
	"Tempest", "Umbra", "Zenith", "Arcturus", "Cygnus",
	"Eridani", "Lyra", "Procyon", "Rigel", "Sirius",
	"Halcyon", "Tarsis", "Brightwater", "Cinder", "Ossuary",
	"Pallas", "Quillon", "Rook's Hollow", "Saffron", "Thule",
}

var namePrefixes = []string{
	"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Nova", "Astra", "Orion",
	"Helix", "Cobalt", "Ember", "Iron", "Silver", "Frost", "Dust", "Echo",
}

var nameSuffixes = []string{
	"Prime", "Major", "Minor", "Reach", "Gate", "Station", "Haven", "Point",
	"Drift", "Expanse", "Crossing", "Landing", "Hold", "Verge",
}

var nameParts = []string{
	"Kepler", "Gliese", "Ross", "Wolf", "Luyten", "Lacaille", "Struve",
	"Groombridge", "Kapteyn", "Barnard", "Teegarden", "Trappist",
}

// maxNameDraws bounds the random combination phase before falling back
// to numbered names.
const maxNameDraws = 20000

// GenerateNames returns count unique names, none of which appear in reserved.
func GenerateNames(rng *rand.Rand, count int, reserved map[string]bool) []string {
	seen := make(map[string]bool, count+len(reserved))
	for name := range reserved {
		seen[name] = true
	}
	names := make([]string, 0, count)
	add := func(name string) {
		if len(names) >= count || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	curated := make([]string, len(curatedNames))
	copy(curated, curatedNames)
	rng.Shuffle(len(curated), func(i, j int) {
		curated[i], curated[j] = curated[j], curated[i]
	})
	// Curated names fill at most half the pool so generated names stay in the mix.
	for _, name := range curated[:min(len(curated), (count+1)/2)] {
		add(name)
	}

	for draws := 0; len(names) < count && draws < maxNameDraws; draws++ {
		if rng.IntN(2) == 0 {
			add(namePrefixes[rng.IntN(len(namePrefixes))] + " " + nameSuffixes[rng.IntN(len(nameSuffixes))])
		} else {
			add(fmt.Sprintf("%s-%d", nameParts[rng.IntN(len(nameParts))], randInt(rng, 2, 999)))
		}
	}

	for _, name := range curated {
		add(name)
	}
	for i := 1; len(names) < count; i++ {
		add(fmt.Sprintf("Uncharted %d", i))
	}

	rng.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})
	return names
}
