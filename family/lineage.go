package family

import (
	"strings"

	"github.com/camden-git/familyring/codes"
	"github.com/camden-git/familyring/registry"
)

// LineageSeparator joins the codes of a ring lineage, donor first.
const LineageSeparator = "→"

// maxLineagePasses bounds relaxation; real inheritance chains are a handful deep.
const maxLineagePasses = 20

// ResolveLineage recomputes the ring lineage of every person by walking the
// inherited-from relation to a fixed point. A donor whose lineage already holds
// the person's code is skipped, so cycles in corrupted data end the walk instead
// of looping. It returns the number of passes that made a change.
func ResolveLineage(reg *registry.Registry) int {
	people := reg.All()
	for _, p := range people {
		p.RingLineage = p.Code
	}

	passes := 0
	for passes < maxLineagePasses {
		changed := false
		for _, p := range people {
			if p.InheritedFromCode == "" {
				continue
			}
			donor := reg.Find(p.InheritedFromCode)
			if donor == nil || lineageContains(donor.RingLineage, p.Code) {
				continue
			}
			next := donor.RingLineage + LineageSeparator + p.Code
			if next != p.RingLineage {
				p.RingLineage = next
				changed = true
			}
		}
		if !changed {
			break
		}
		passes++
	}
	return passes
}

// lineageContains compares whole segments, so "1A" is not found in "1A1".
func lineageContains(lineage, code string) bool {
	for _, segment := range strings.Split(lineage, LineageSeparator) {
		if segment == code {
			return true
		}
	}
	return false
}

// recomputeDerived brings generation and ring lineage in line with the codes.
func recomputeDerived(reg *registry.Registry) {
	for _, p := range reg.All() {
		p.Generation = codes.Generation(p.Code)
	}
	ResolveLineage(reg)
}
