package family

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/familyring/models"
	"github.com/camden-git/familyring/registry"
)

func person(code, parent, birth string) *models.Person {
	return &models.Person{Code: code, Name: "Person " + code, ParentCode: parent, BirthDate: birth}
}

func newRegistry(t *testing.T, people ...*models.Person) *registry.Registry {
	t.Helper()
	reg, err := registry.FromPeople(people)
	require.NoError(t, err)
	return reg
}

func TestRenumberOrdersByBirth(t *testing.T) {
	reg := newRegistry(t,
		person("1", "", ""),
		person("1A", "1", "04.12.2000"),
		person("1B", "1", "01.01.1990"),
	)

	n, err := Renumber(reg, "1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "Person 1B", reg.Find("1A").Name)
	assert.Equal(t, "Person 1A", reg.Find("1B").Name)

	n, err = Renumber(reg, "1")
	require.NoError(t, err)
	assert.Zero(t, n, "second renumber must be a no-op")
}

func TestRenumberMissingParentIsNoop(t *testing.T) {
	reg := newRegistry(t, person("1A", "1", ""))

	n, err := Renumber(reg, "1")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, reg.Has("1A"))
}

func TestRenumberSwapCarriesDescendants(t *testing.T) {
	older := person("1B", "1", "01.01.1990")
	older.PartnerCode = "1Bx"
	olderPartner := person("1Bx", "", "")
	olderPartner.PartnerCode = "1B"
	reg := newRegistry(t,
		person("1", "", ""),
		person("1A", "1", "04.12.2000"),
		person("1A1", "1A", "01.01.2030"),
		older,
		olderPartner,
		person("1B1", "1B", "01.01.2020"),
		person("1B1A", "1B1", "01.01.2050"),
	)

	n, err := Renumber(reg, "1")
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	assert.Equal(t, "Person 1B", reg.Find("1A").Name)
	assert.Equal(t, "1Ax", reg.Find("1A").PartnerCode)
	assert.Equal(t, "Person 1Bx", reg.Find("1Ax").Name)
	assert.Equal(t, "1A", reg.Find("1Ax").PartnerCode)
	assert.Equal(t, "Person 1B1", reg.Find("1A1").Name)
	assert.Equal(t, "1A", reg.Find("1A1").ParentCode)
	assert.Equal(t, "Person 1B1A", reg.Find("1A1A").Name)
	assert.Equal(t, "1A1", reg.Find("1A1A").ParentCode)

	assert.Equal(t, "Person 1A", reg.Find("1B").Name)
	assert.Equal(t, "Person 1A1", reg.Find("1B1").Name)
	assert.Equal(t, "1B", reg.Find("1B1").ParentCode)
	assert.False(t, reg.Has("1Bx"))
	assert.Equal(t, 7, reg.Len())
}

func TestRenumberRewritesInheritance(t *testing.T) {
	heir := person("1C", "1", "01.01.2010")
	heir.InheritedFromCode = "1A"
	reg := newRegistry(t,
		person("1", "", ""),
		person("1A", "1", "01.01.2005"),
		person("1B", "1", "01.01.2000"),
		heir,
	)

	_, err := Renumber(reg, "1")
	require.NoError(t, err)
	assert.Equal(t, "1B", reg.Find("1C").InheritedFromCode)
	assert.Equal(t, "Person 1A", reg.Find("1B").Name)
}

func TestRenumberEqualBirthDatesKeepCodeOrder(t *testing.T) {
	reg := newRegistry(t,
		person("1", "", ""),
		person("1A", "1", "01.01.2000"),
		person("1B", "1", "01.01.2000"),
		person("1C", "1", "31.12.1999"),
	)

	_, err := Renumber(reg, "1")
	require.NoError(t, err)
	assert.Equal(t, "Person 1C", reg.Find("1A").Name)
	assert.Equal(t, "Person 1A", reg.Find("1B").Name)
	assert.Equal(t, "Person 1B", reg.Find("1C").Name)
}

func TestRenumberUnparseableDateSortsFirst(t *testing.T) {
	reg := newRegistry(t,
		person("1", "", ""),
		person("1A", "1", "01.01.2000"),
		person("1B", "1", "garbage"),
	)

	_, err := Renumber(reg, "1")
	require.NoError(t, err)
	assert.Equal(t, "Person 1B", reg.Find("1A").Name)
}

func TestRenumberNumericSuffixUnderSecondGeneration(t *testing.T) {
	reg := newRegistry(t,
		person("1", "", ""),
		person("1A", "1", ""),
		person("1A2", "1A", "01.01.2001"),
		person("1A5", "1A", "01.01.2000"),
	)

	_, err := Renumber(reg, "1A")
	require.NoError(t, err)
	assert.Equal(t, "Person 1A5", reg.Find("1A1").Name)
	assert.Equal(t, "Person 1A2", reg.Find("1A2").Name)
	assert.False(t, reg.Has("1A5"))
}

func TestRenumberCollisionWritesNothing(t *testing.T) {
	reg := newRegistry(t,
		person("1", "", ""),
		person("1A", "", "01.01.1980"),
		person("1B", "1", "01.01.1990"),
	)

	_, err := Renumber(reg, "1")
	var dup *models.DuplicateCodeError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "1A", dup.Code)
	assert.Equal(t, "Person 1B", reg.Find("1B").Name)
	assert.Equal(t, "Person 1A", reg.Find("1A").Name)
}

func TestRenumberManySiblingsContinuesLetters(t *testing.T) {
	people := []*models.Person{person("1", "", "")}
	for i := 0; i < 28; i++ {
		code := placeholderPrefix + string(rune('a'+i%26)) + string(rune('a'+i/26))
		people = append(people, person(code, "1", ""))
	}
	reg := newRegistry(t, people...)

	n, err := Renumber(reg, "1")
	require.NoError(t, err)
	assert.Equal(t, 28, n)
	for _, code := range []string{"1A", "1Z", "1AA", "1AB"} {
		assert.True(t, reg.Has(code), "expected %s", code)
	}
}
