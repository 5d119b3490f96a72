package family

import (
	"sort"

	"github.com/google/uuid"

	"github.com/camden-git/familyring/codes"
	"github.com/camden-git/familyring/models"
	"github.com/camden-git/familyring/registry"
)

// placeholderPrefix marks codes that only exist inside a single operation.
// Real codes start with a digit, so no stored code can carry it.
const placeholderPrefix = "__TEMP_"

type rename struct {
	from, to string
}

// renamePlan is the ordered set of renames one renumbering produces, including
// the partners and descendants that move along with a renamed child.
type renamePlan struct {
	renames []rename
	from    map[string]bool
}

func newRenamePlan() *renamePlan {
	return &renamePlan{from: make(map[string]bool)}
}

func (rp *renamePlan) add(from, to string) bool {
	if rp.from[from] {
		return false
	}
	rp.from[from] = true
	rp.renames = append(rp.renames, rename{from: from, to: to})
	return true
}

// Renumber recomputes the canonical code of every child of parentCode from birth
// order and applies the renames, repairing all references. It returns the number
// of people whose code changed. A parent that does not exist is a no-op.
//
// The plan is validated before anything is written: a target code held by a
// person the plan does not move yields a DuplicateCodeError and no change.
func Renumber(reg *registry.Registry, parentCode string) (int, error) {
	if reg.Find(parentCode) == nil {
		return 0, nil
	}
	plan := newRenamePlan()
	planChildren(reg, plan, parentCode, parentCode)
	if len(plan.renames) == 0 {
		return 0, nil
	}
	if err := plan.check(reg); err != nil {
		return 0, err
	}
	if err := plan.apply(reg); err != nil {
		return 0, err
	}
	return len(plan.renames), nil
}

// planChildren plans the children currently filed under fromParent as children
// of toParent. The two differ when a renamed person's descendants follow it.
func planChildren(reg *registry.Registry, plan *renamePlan, fromParent, toParent string) {
	children := sortedByBirth(reg.ChildrenOf(fromParent))
	parentGen := codes.Generation(toParent)
	for i, child := range children {
		target := toParent + codes.ChildSuffix(parentGen, i)
		if child.Code == target {
			continue
		}
		if plan.add(child.Code, target) {
			planFollowers(reg, plan, child.Code, target)
		}
	}
}

// planFollowers moves the partner record and descendants of a renamed person.
func planFollowers(reg *registry.Registry, plan *renamePlan, from, to string) {
	partnerCode := codes.PartnerOf(from)
	if partner := reg.Find(partnerCode); partner != nil {
		plan.add(partnerCode, codes.PartnerOf(to))
	}
	planChildren(reg, plan, from, to)
}

// sortedByBirth orders siblings by birth date; missing or unparseable dates
// count as the zero date and come first. Ties keep natural code order.
func sortedByBirth(children []*models.Person) []*models.Person {
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].Birth().Before(children[j].Birth())
	})
	return children
}

func (rp *renamePlan) check(reg *registry.Registry) error {
	targets := make(map[string]bool, len(rp.renames))
	for _, r := range rp.renames {
		if targets[r.to] {
			return &models.DuplicateCodeError{Code: r.to}
		}
		targets[r.to] = true
		if reg.Has(r.to) && !rp.from[r.to] {
			return &models.DuplicateCodeError{Code: r.to}
		}
	}
	return nil
}

// apply performs the two-phase rename: every moved person first gets a unique
// placeholder, then all references are rewritten, then placeholders take their
// target codes. No two people share a code at any step.
func (rp *renamePlan) apply(reg *registry.Registry) error {
	prefix := placeholderPrefix + uuid.NewString() + "__"
	for _, r := range rp.renames {
		if err := reg.Rename(r.from, prefix+r.to); err != nil {
			return err
		}
	}

	mapping := make(map[string]string, len(rp.renames))
	for _, r := range rp.renames {
		mapping[r.from] = r.to
	}
	reg.RewriteReferences(mapping)

	for _, r := range rp.renames {
		if err := reg.Rename(prefix+r.to, r.to); err != nil {
			return err
		}
	}
	return nil
}
