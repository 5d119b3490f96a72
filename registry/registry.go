package registry

import (
	"sort"

	"github.com/facette/natsort"

	"github.com/camden-git/familyring/models"
)

// Registry is the in-memory collection of people keyed by their current code.
// It enforces code uniqueness and nothing else; business rules live in family.
type Registry struct {
	people map[string]*models.Person
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{people: make(map[string]*models.Person)}
}

// FromPeople builds a registry from people, failing on the first duplicate code.
func FromPeople(people []*models.Person) (*Registry, error) {
	r := New()
	for _, p := range people {
		if err := r.Add(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Len returns the number of stored people.
func (r *Registry) Len() int {
	return len(r.people)
}

// Find returns the person stored under code, or nil.
func (r *Registry) Find(code string) *models.Person {
	if code == "" {
		return nil
	}
	return r.people[code]
}

// Has reports whether code is taken.
func (r *Registry) Has(code string) bool {
	_, ok := r.people[code]
	return ok
}

// Add inserts p under its code.
func (r *Registry) Add(p *models.Person) error {
	if _, exists := r.people[p.Code]; exists {
		return &models.DuplicateCodeError{Code: p.Code}
	}
	r.people[p.Code] = p
	return nil
}

// Remove deletes the person stored under code and returns it, or nil if absent.
func (r *Registry) Remove(code string) *models.Person {
	p, ok := r.people[code]
	if !ok {
		return nil
	}
	delete(r.people, code)
	return p
}

// Rename moves the person stored under oldCode to newCode. References held by
// other people are not touched; see RewriteReferencesTo.
func (r *Registry) Rename(oldCode, newCode string) error {
	if oldCode == newCode {
		return nil
	}
	p, ok := r.people[oldCode]
	if !ok {
		return &models.PersonNotFoundError{Code: oldCode}
	}
	if _, exists := r.people[newCode]; exists {
		return &models.DuplicateCodeError{Code: newCode}
	}
	delete(r.people, oldCode)
	p.Code = newCode
	r.people[newCode] = p
	return nil
}

// RewriteReferencesTo replaces every parent, partner and inherited-from reference
// equal to oldCode with newCode and returns how many fields changed. An empty
// newCode clears the references.
func (r *Registry) RewriteReferencesTo(oldCode, newCode string) int {
	if oldCode == "" {
		return 0
	}
	changed := 0
	for _, p := range r.people {
		for _, ref := range p.References() {
			if *ref == oldCode {
				*ref = newCode
				changed++
			}
		}
	}
	return changed
}

// RewriteReferences applies mapping to every reference field at once, so chained
// renames such as 1A->1B, 1B->1C never compound.
func (r *Registry) RewriteReferences(mapping map[string]string) int {
	changed := 0
	for _, p := range r.people {
		for _, ref := range p.References() {
			if to, ok := mapping[*ref]; ok && *ref != "" {
				*ref = to
				changed++
			}
		}
	}
	return changed
}

// ChildrenOf returns every person whose parent code equals parentCode, in
// natural code order.
func (r *Registry) ChildrenOf(parentCode string) []*models.Person {
	if parentCode == "" {
		return nil
	}
	var children []*models.Person
	for _, p := range r.people {
		if p.ParentCode == parentCode {
			children = append(children, p)
		}
	}
	sortByCode(children)
	return children
}

// All returns every person ordered by generation, then natural code order, so
// that "1A2" precedes "1A10". The order does not depend on insertion order.
func (r *Registry) All() []*models.Person {
	all := make([]*models.Person, 0, len(r.people))
	for _, p := range r.people {
		all = append(all, p)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Generation != all[j].Generation {
			return all[i].Generation < all[j].Generation
		}
		return codeLess(all[i].Code, all[j].Code)
	})
	return all
}

// Clone returns a deep copy that shares no people with r.
func (r *Registry) Clone() *Registry {
	c := &Registry{people: make(map[string]*models.Person, len(r.people))}
	for code, p := range r.people {
		c.people[code] = p.Clone()
	}
	return c
}

func sortByCode(people []*models.Person) {
	sort.SliceStable(people, func(i, j int) bool {
		return codeLess(people[i].Code, people[j].Code)
	})
}

func codeLess(a, b string) bool {
	if a == b {
		return false
	}
	return natsort.Compare(a, b)
}
