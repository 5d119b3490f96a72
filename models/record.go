package models

import (
	"strings"

	"github.com/camden-git/familyring/codes"
)

// Record is the flat persistence and transfer form of a person. Field names are
// the column names of exported files and must stay stable.
type Record struct {
	Gen           int    `json:"Gen"`
	Code          string `json:"Code"`
	RingCode      string `json:"RingCode"`
	Name          string `json:"Name"`
	Birth         string `json:"Birth"`
	Death         string `json:"Death,omitempty"`
	BirthPlace    string `json:"BirthPlace"`
	Gender        string `json:"Gender"`
	ParentCode    string `json:"ParentCode"`
	PartnerCode   string `json:"PartnerCode"`
	InheritedFrom string `json:"InheritedFrom"`
	Note          string `json:"Note"`
}

// RecordColumns lists the exported columns in file order.
var RecordColumns = []string{
	"Gen", "Code", "RingCode", "Name", "Birth", "Death", "BirthPlace",
	"Gender", "ParentCode", "PartnerCode", "InheritedFrom", "Note",
}

// PersonFields is the raw field bag supplied by create and update callers.
type PersonFields struct {
	Name              string `json:"name" validate:"required"`
	BirthDate         string `json:"birth_date" validate:"omitempty,daydate"`
	DeathDate         string `json:"death_date" validate:"omitempty,daydate"`
	BirthPlace        string `json:"birth_place" validate:"required"`
	Gender            string `json:"gender" validate:"required,gender"`
	ParentCode        string `json:"parent_code"`
	PartnerCode       string `json:"partner_code"`
	InheritedFromCode string `json:"inherited_from_code"`
	Note              string `json:"note"`
}

// Trimmed returns a copy with surrounding whitespace removed and every code
// passed through codes.Normalize.
func (f PersonFields) Trimmed() PersonFields {
	return PersonFields{
		Name:              strings.TrimSpace(f.Name),
		BirthDate:         strings.TrimSpace(f.BirthDate),
		DeathDate:         strings.TrimSpace(f.DeathDate),
		BirthPlace:        strings.TrimSpace(f.BirthPlace),
		Gender:            strings.TrimSpace(f.Gender),
		ParentCode:        codes.Normalize(f.ParentCode),
		PartnerCode:       codes.Normalize(f.PartnerCode),
		InheritedFromCode: codes.Normalize(f.InheritedFromCode),
		Note:              strings.TrimSpace(f.Note),
	}
}

// ToRecord converts p into its persistence form.
func (p *Person) ToRecord() Record {
	return Record{
		Gen:           p.Generation,
		Code:          p.Code,
		RingCode:      p.RingLineage,
		Name:          p.Name,
		Birth:         p.BirthDate,
		Death:         p.DeathDate,
		BirthPlace:    p.BirthPlace,
		Gender:        string(p.Gender),
		ParentCode:    p.ParentCode,
		PartnerCode:   p.PartnerCode,
		InheritedFrom: p.InheritedFromCode,
		Note:          p.Note,
	}
}

// ToPerson converts r into a person with normalized codes. Gen and RingCode are
// carried over as-is; callers recompute them.
func (r Record) ToPerson() *Person {
	return &Person{
		Code:              codes.Normalize(r.Code),
		Generation:        r.Gen,
		Name:              strings.TrimSpace(r.Name),
		BirthDate:         strings.TrimSpace(r.Birth),
		DeathDate:         strings.TrimSpace(r.Death),
		BirthPlace:        strings.TrimSpace(r.BirthPlace),
		Gender:            ParseGender(r.Gender),
		ParentCode:        codes.Normalize(r.ParentCode),
		PartnerCode:       codes.Normalize(r.PartnerCode),
		InheritedFromCode: codes.Normalize(r.InheritedFrom),
		RingLineage:       r.RingCode,
		Note:              strings.TrimSpace(r.Note),
	}
}
