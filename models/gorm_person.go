package models

import "time"

// Person represents one individual of the family tree using GORM.
// It corresponds to the 'people' table.
type Person struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	Code       string `gorm:"uniqueIndex;not null" json:"code"`
	Generation int    `gorm:"not null" json:"generation"` // always codes.Generation(Code)
	Name       string `gorm:"not null" json:"name"`
	BirthDate  string `json:"birth_date,omitempty"` // DD.MM.YYYY
	DeathDate  string `json:"death_date,omitempty"` // DD.MM.YYYY
	BirthPlace string `json:"birth_place"`
	Gender     Gender `gorm:"size:1" json:"gender"`

	// references to other people by code, repaired on every rename
	ParentCode        string `gorm:"index" json:"parent_code,omitempty"`
	PartnerCode       string `json:"partner_code,omitempty"`
	InheritedFromCode string `json:"inherited_from_code,omitempty"`

	RingLineage string `json:"ring_lineage"` // derived
	Note        string `json:"note,omitempty"`

	UpdatedAt int64 `gorm:"not null" json:"updated_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "people"
}

// Birth returns the parsed birth date. Missing or unparseable dates yield the zero
// time so that such people sort first among their siblings.
func (p *Person) Birth() time.Time {
	t, err := ParseDayDate(p.BirthDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Clone returns an independent copy of p.
func (p *Person) Clone() *Person {
	c := *p
	return &c
}

// References returns pointers to the three code reference fields.
func (p *Person) References() []*string {
	return []*string{&p.ParentCode, &p.PartnerCode, &p.InheritedFromCode}
}
