package family

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLineageChain(t *testing.T) {
	b := person("1B", "1", "")
	c := person("1C", "1", "")
	c.InheritedFromCode = "1B"
	a := person("1A", "1", "")
	a.InheritedFromCode = "1C"
	reg := newRegistry(t, person("1", "", ""), a, b, c)

	passes := ResolveLineage(reg)
	assert.LessOrEqual(t, passes, maxLineagePasses)
	assert.Equal(t, "1B→1C→1A", reg.Find("1A").RingLineage)
	assert.Equal(t, "1B→1C", reg.Find("1C").RingLineage)
	assert.Equal(t, "1B", reg.Find("1B").RingLineage)
	assert.Equal(t, "1", reg.Find("1").RingLineage)
}

func TestResolveLineageTerminatesOnCycles(t *testing.T) {
	tests := []struct {
		name  string
		links map[string]string
	}{
		{"two cycle", map[string]string{"1A": "1B", "1B": "1A"}},
		{"three cycle", map[string]string{"1A": "1B", "1B": "1C", "1C": "1A"}},
		{"self loop", map[string]string{"1A": "1A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newRegistry(t, person("1", "", ""), person("1A", "1", ""), person("1B", "1", ""), person("1C", "1", ""))
			for code, donor := range tt.links {
				reg.Find(code).InheritedFromCode = donor
			}

			require.NotPanics(t, func() { ResolveLineage(reg) })
			for _, p := range reg.All() {
				assert.NotEmpty(t, p.RingLineage)
				assert.True(t, lineageContains(p.RingLineage, p.Code), "lineage of %s is %q", p.Code, p.RingLineage)
			}
		})
	}
}

func TestResolveLineageTwoCycleResult(t *testing.T) {
	a := person("1A", "1", "")
	a.InheritedFromCode = "1B"
	b := person("1B", "1", "")
	b.InheritedFromCode = "1A"
	reg := newRegistry(t, a, b)

	ResolveLineage(reg)
	assert.Equal(t, "1B→1A", reg.Find("1A").RingLineage)
	assert.Equal(t, "1B", reg.Find("1B").RingLineage)
}

func TestResolveLineageComparesWholeSegments(t *testing.T) {
	a := person("1A", "1", "")
	a.InheritedFromCode = "1A1"
	reg := newRegistry(t, a, person("1A1", "1A", ""))

	ResolveLineage(reg)
	assert.Equal(t, "1A1→1A", reg.Find("1A").RingLineage)
}

func TestResolveLineageIgnoresMissingDonor(t *testing.T) {
	a := person("1A", "1", "")
	a.InheritedFromCode = "9Q"
	reg := newRegistry(t, a)

	assert.Zero(t, ResolveLineage(reg))
	assert.Equal(t, "1A", reg.Find("1A").RingLineage)
}

func TestLineageContains(t *testing.T) {
	assert.True(t, lineageContains("1B→1C", "1C"))
	assert.False(t, lineageContains("1A1→1B", "1A"))
	assert.False(t, lineageContains("", "1A"))
}
