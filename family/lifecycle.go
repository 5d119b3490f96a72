package family

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/camden-git/familyring/codes"
	"github.com/camden-git/familyring/models"
	"github.com/camden-git/familyring/registry"
)

func newPerson(code string, f models.PersonFields) *models.Person {
	return &models.Person{
		Code:              code,
		Generation:        codes.Generation(code),
		Name:              f.Name,
		BirthDate:         f.BirthDate,
		DeathDate:         f.DeathDate,
		BirthPlace:        f.BirthPlace,
		Gender:            models.ParseGender(f.Gender),
		InheritedFromCode: f.InheritedFromCode,
		Note:              f.Note,
		UpdatedAt:         time.Now().Unix(),
	}
}

// CreateRoot creates the founding ancestor with code "1".
func (s *Service) CreateRoot(fields models.PersonFields) (*models.Person, error) {
	f, err := prepareFields(fields)
	if err != nil {
		return nil, err
	}
	var created *models.Person
	err = s.apply("create root", func(reg *registry.Registry) error {
		if reg.Has(codes.Root) {
			return &models.DuplicateCodeError{Code: codes.Root}
		}
		if err := checkDonor(reg, "", f.InheritedFromCode); err != nil {
			return err
		}
		created = newPerson(codes.Root, f)
		return reg.Add(created)
	})
	if err != nil {
		return nil, err
	}
	return created.Clone(), nil
}

// CreatePartner creates the partner of the person stored under partnerCode and
// links both sides. Partner records cannot receive a partner themselves.
func (s *Service) CreatePartner(partnerCode string, fields models.PersonFields) (*models.Person, error) {
	f, err := prepareFields(fields)
	if err != nil {
		return nil, err
	}
	code := codes.Normalize(partnerCode)
	var created *models.Person
	err = s.apply("create partner", func(reg *registry.Registry) error {
		partner := reg.Find(code)
		if partner == nil {
			return &models.PartnerNotFoundError{Code: code}
		}
		if codes.IsPartner(partner.Code) {
			return &models.ValidationError{Field: "partner_code", Message: "a partner record cannot be given a partner"}
		}
		candidate := codes.PartnerOf(partner.Code)
		if reg.Has(candidate) {
			return &models.DuplicateCodeError{Code: candidate}
		}
		if partner.PartnerCode != "" && reg.Has(partner.PartnerCode) {
			return &models.ValidationError{Field: "partner_code", Message: partner.Code + " already has a partner"}
		}
		if err := checkDonor(reg, "", f.InheritedFromCode); err != nil {
			return err
		}
		created = newPerson(candidate, f)
		created.PartnerCode = partner.Code
		if err := reg.Add(created); err != nil {
			return err
		}
		partner.PartnerCode = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created.Clone(), nil
}

// CreateChild files a new child under parentCode. The child is inserted under
// a placeholder and receives its real code from renumbering its siblings.
func (s *Service) CreateChild(parentCode string, fields models.PersonFields) (*models.Person, error) {
	f, err := prepareFields(fields)
	if err != nil {
		return nil, err
	}
	code := codes.Normalize(parentCode)
	var created *models.Person
	err = s.apply("create child", func(reg *registry.Registry) error {
		parent := reg.Find(code)
		if parent == nil {
			return &models.ParentNotFoundError{Code: code}
		}
		if codes.IsPartner(parent.Code) {
			return &models.ValidationError{Field: "parent_code", Message: "children are filed under the blood relative, not the partner record"}
		}
		if err := checkDonor(reg, "", f.InheritedFromCode); err != nil {
			return err
		}
		created = newPerson(placeholderPrefix+"NEW_"+uuid.NewString(), f)
		created.ParentCode = parent.Code
		created.Generation = parent.Generation + 1
		if err := reg.Add(created); err != nil {
			return err
		}
		if f.PartnerCode != "" {
			if err := linkPartner(reg, created, f.PartnerCode); err != nil {
				return err
			}
		}
		_, err := Renumber(reg, parent.Code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created.Clone(), nil
}

// UpdatePerson applies an edit. A changed birth date renumbers the person's
// siblings; a changed parent moves the person (with partner and descendants)
// under the new parent and closes the gap left behind.
func (s *Service) UpdatePerson(code string, fields models.PersonFields) (*models.Person, error) {
	f, err := prepareFields(fields)
	if err != nil {
		return nil, err
	}
	target := codes.Normalize(code)
	var updated *models.Person
	err = s.apply("update person", func(reg *registry.Registry) error {
		p := reg.Find(target)
		if p == nil {
			return &models.PersonNotFoundError{Code: target}
		}
		oldParent := p.ParentCode
		parentChanged := f.ParentCode != oldParent
		birthChanged := f.BirthDate != p.BirthDate

		if parentChanged {
			if err := checkNewParent(reg, p, f.ParentCode); err != nil {
				return err
			}
		}
		if err := checkDonor(reg, p.Code, f.InheritedFromCode); err != nil {
			return err
		}
		if f.PartnerCode != p.PartnerCode {
			unlinkPartner(reg, p)
			if f.PartnerCode != "" {
				if err := linkPartner(reg, p, f.PartnerCode); err != nil {
					return err
				}
			}
		}

		p.Name = f.Name
		p.BirthDate = f.BirthDate
		p.DeathDate = f.DeathDate
		p.BirthPlace = f.BirthPlace
		p.Gender = models.ParseGender(f.Gender)
		p.InheritedFromCode = f.InheritedFromCode
		p.Note = f.Note
		p.ParentCode = f.ParentCode
		p.UpdatedAt = time.Now().Unix()
		updated = p

		switch {
		case parentChanged:
			if p.ParentCode != "" {
				if _, err := Renumber(reg, p.ParentCode); err != nil {
					return err
				}
			}
			closeGap(reg, oldParent)
		case birthChanged && p.ParentCode != "":
			if _, err := Renumber(reg, p.ParentCode); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

// DeletePerson removes a person and clears every reference to them. Children
// are not deleted; they lose their parent link and keep their codes. Siblings
// are not renumbered, so the deleted code is not reused by this operation.
func (s *Service) DeletePerson(code string) error {
	target := codes.Normalize(code)
	return s.apply("delete person", func(reg *registry.Registry) error {
		p := reg.Remove(target)
		if p == nil {
			return &models.PersonNotFoundError{Code: target}
		}
		reg.RewriteReferencesTo(p.Code, "")
		return nil
	})
}

// closeGap renumbers the remaining children of parentCode after someone moved
// away, so their suffixes stay dense. A detached person may still hold a code
// the siblings would move into; in that case the gap is kept rather than
// failing the operation.
func closeGap(reg *registry.Registry, parentCode string) {
	if parentCode == "" {
		return
	}
	if _, err := Renumber(reg, parentCode); err != nil {
		log.Printf("Warning: leaving sibling gap under %s: %v", parentCode, err)
	}
}

func checkNewParent(reg *registry.Registry, p *models.Person, parentCode string) error {
	if parentCode == "" {
		return nil
	}
	if p.Code == codes.Root || codes.IsPartner(p.Code) {
		return &models.ValidationError{Field: "parent_code", Message: "root and partner records cannot be filed under a parent"}
	}
	parent := reg.Find(parentCode)
	if parent == nil {
		return &models.ParentNotFoundError{Code: parentCode}
	}
	if codes.IsPartner(parent.Code) {
		return &models.ValidationError{Field: "parent_code", Message: "children are filed under the blood relative, not the partner record"}
	}
	for ancestor, steps := parent, 0; ancestor != nil && steps <= reg.Len(); steps++ {
		if ancestor.Code == p.Code {
			return &models.ValidationError{Field: "parent_code", Message: "a person cannot be filed under their own descendant"}
		}
		ancestor = reg.Find(ancestor.ParentCode)
	}
	return nil
}

// checkDonor validates an inherited-from reference for the person self (empty
// for a person not yet stored) and rejects chains that lead back to self.
func checkDonor(reg *registry.Registry, self, donorCode string) error {
	if donorCode == "" {
		return nil
	}
	if donorCode == self {
		return &models.ValidationError{Field: "inherited_from_code", Message: "a person cannot inherit from themselves"}
	}
	donor := reg.Find(donorCode)
	if donor == nil {
		return &models.ValidationError{Field: "inherited_from_code", Message: "unknown person " + donorCode}
	}
	if self == "" {
		return nil
	}
	for d, steps := donor, 0; d != nil && steps <= reg.Len(); steps++ {
		if d.Code == self {
			return &models.ValidationError{Field: "inherited_from_code", Message: "inheritance would form a cycle"}
		}
		d = reg.Find(d.InheritedFromCode)
	}
	return nil
}

// linkPartner links p and the person under partnerCode on both sides.
func linkPartner(reg *registry.Registry, p *models.Person, partnerCode string) error {
	partner := reg.Find(partnerCode)
	if partner == nil {
		return &models.PartnerNotFoundError{Code: partnerCode}
	}
	if partner == p {
		return &models.ValidationError{Field: "partner_code", Message: "a person cannot partner themselves"}
	}
	if partner.PartnerCode != "" && partner.PartnerCode != p.Code {
		return &models.ValidationError{Field: "partner_code", Message: partner.Code + " already has a partner"}
	}
	p.PartnerCode = partner.Code
	partner.PartnerCode = p.Code
	return nil
}

// unlinkPartner clears p's partner link and the back reference, if any.
func unlinkPartner(reg *registry.Registry, p *models.Person) {
	if partner := reg.Find(p.PartnerCode); partner != nil && partner.PartnerCode == p.Code {
		partner.PartnerCode = ""
	}
	p.PartnerCode = ""
}
