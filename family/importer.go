package family

import (
	"log"

	"github.com/camden-git/familyring/models"
	"github.com/camden-git/familyring/registry"
)

// ImportResult summarizes a bulk load.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Scrubbed int `json:"scrubbed_references"`
}

// buildRegistry turns raw records into a consistent registry. Records without a
// code or name are skipped, as are later records repeating an earlier code.
// References to codes that do not exist are cleared and derived fields are
// recomputed.
func buildRegistry(records []models.Record) (*registry.Registry, ImportResult) {
	reg := registry.New()
	var res ImportResult
	for _, rec := range records {
		p := rec.ToPerson()
		if p.Code == "" || p.Name == "" {
			res.Skipped++
			continue
		}
		if err := reg.Add(p); err != nil {
			log.Printf("Warning: skipping record %q: %v", p.Code, err)
			res.Skipped++
			continue
		}
		res.Imported++
	}
	res.Scrubbed = scrubDangling(reg)
	recomputeDerived(reg)
	return reg, res
}

// scrubDangling clears references to codes that are not stored.
func scrubDangling(reg *registry.Registry) int {
	scrubbed := 0
	for _, p := range reg.All() {
		for _, ref := range p.References() {
			if *ref != "" && (*ref == p.Code || !reg.Has(*ref)) {
				*ref = ""
				scrubbed++
			}
		}
	}
	return scrubbed
}

// Load replaces the registry with records without recording an undo step. It is
// used at startup, before any user operation.
func (s *Service) Load(records []models.Record) ImportResult {
	reg, res := buildRegistry(records)
	s.reg = reg
	return res
}

// Import replaces all people with the accepted records as one undoable
// operation. An import without a single acceptable record is rejected.
func (s *Service) Import(records []models.Record) (ImportResult, error) {
	var res ImportResult
	err := s.apply("import", func(reg *registry.Registry) error {
		built, r := buildRegistry(records)
		if r.Imported == 0 {
			return &models.ValidationError{Field: "records", Message: "no record carries both a code and a name"}
		}
		res = r
		*reg = *built
		return nil
	})
	return res, err
}
