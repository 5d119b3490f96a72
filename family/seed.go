package family

import "github.com/camden-git/familyring/models"

// SeedRecords is the starter family shown when nothing is stored yet or the
// stored data cannot be read.
func SeedRecords() []models.Record {
	return []models.Record{
		{Gen: 1, Code: "1", Name: "Founder", Birth: "13.01.1965", BirthPlace: "Hometown", Gender: "m", PartnerCode: "1x", Note: "Root of the tree"},
		{Gen: 1, Code: "1x", Name: "Founder's Partner", Birth: "13.01.1970", BirthPlace: "Hometown", Gender: "f", PartnerCode: "1", Note: "Partner of the root"},
		{Gen: 2, Code: "1A", Name: "First Child", Birth: "28.04.1995", BirthPlace: "Hometown", Gender: "m", ParentCode: "1", Note: "1st son"},
		{Gen: 2, Code: "1B", Name: "Second Child", Birth: "04.12.2000", BirthPlace: "Lakeside", Gender: "m", ParentCode: "1", Note: "2nd son"},
		{Gen: 2, Code: "1C", Name: "Third Child", Birth: "26.09.2002", BirthPlace: "Lakeside", Gender: "f", ParentCode: "1", Note: "Daughter"},
	}
}
