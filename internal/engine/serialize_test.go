package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSlotStrings(t *testing.T) {
	cfg := &Config{
		Classes:  []string{"CSE-A"},
		Staff:    []string{"T1", "T2"},
		Subjects: []string{"L1", "DB_Lab"},
		StaffExpertise: map[string][]string{
			"L1":     {"T1"},
			"DB_Lab": {"T1", "T2"},
		},
		ClassData: map[string]*ClassConfig{
			"CSE-A": {Subjects: []string{"L1"}, Labs: []string{"DB_Lab"}},
		},
	}

	lecture := &SubjectGrid{}
	lecture[0][0] = true
	lab := &SubjectGrid{}
	lab[1][1], lab[1][2], lab[1][3] = true, true, true

	placement := Placement{"CSE-A": ClassPlacement{"L1": lecture, "DB_Lab": lab}}
	assignments := Assignments{"CSE-A": {"L1": {"T1"}, "DB_Lab": {"T1", "T2"}}}

	rendered := Render(cfg, placement, assignments)
	days := rendered["CSE-A"]
	require.Len(t, days, NumDays)

	assert.Equal(t, "L1 (T1)", days["0"][0])
	assert.Equal(t, FreeSlot, days["0"][1])
	// The lab block renders as adjacent identical strings.
	for p := 1; p <= 3; p++ {
		assert.Equal(t, "DB_Lab (T1 & T2)", days["1"][p])
	}
	assert.Equal(t, FreeSlot, days["5"][6])
}

func TestDayKeysAreStringifiedIndices(t *testing.T) {
	for d := 0; d < NumDays; d++ {
		assert.Equal(t, string(rune('0'+d)), dayKey(d))
	}
}
