package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	require.NoError(t, budgetFixture().Validate())
}

func TestValidateRejectsDuplicateClass(t *testing.T) {
	cfg := budgetFixture()
	cfg.Classes = append(cfg.Classes, "CSE-A")

	var configErr *ConfigInvalidError
	require.ErrorAs(t, cfg.Validate(), &configErr)
	assert.Contains(t, configErr.Reason, "duplicate class")
}

func TestValidateRejectsUnknownSubject(t *testing.T) {
	cfg := budgetFixture()
	cfg.ClassData["CSE-A"].Subjects = append(cfg.ClassData["CSE-A"].Subjects, "Ghost")

	var configErr *ConfigInvalidError
	require.ErrorAs(t, cfg.Validate(), &configErr)
	assert.Contains(t, configErr.Reason, "unknown subject")
}

func TestValidateRejectsUnstaffedSubject(t *testing.T) {
	cfg := budgetFixture()
	delete(cfg.StaffExpertise, "L3")

	var configErr *ConfigInvalidError
	require.ErrorAs(t, cfg.Validate(), &configErr)
	assert.Contains(t, configErr.Reason, "no qualified staff")
}

func TestValidateRejectsSingletonElectiveGroup(t *testing.T) {
	cfg := budgetFixture()
	cfg.ClassData["CSE-A"].ElectiveGroups = [][]string{{"L1"}}

	var configErr *ConfigInvalidError
	require.ErrorAs(t, cfg.Validate(), &configErr)
	assert.Contains(t, configErr.Reason, "at least two subjects")
}

func TestSubjectKinds(t *testing.T) {
	cc := &ClassConfig{
		Subjects:       []string{"L1", "PW", "LIB_HH", "E1", "E2"},
		Labs:           []string{"DB_Lab"},
		Tutorials:      []string{"M_Tutorial"},
		ElectiveGroups: [][]string{{"E1", "E2"}},
	}

	assert.Equal(t, KindLecture, cc.Kind("L1"))
	assert.Equal(t, KindSpecial, cc.Kind("PW"))
	assert.Equal(t, KindSpecial, cc.Kind("LIB_HH"))
	assert.Equal(t, KindLab, cc.Kind("DB_Lab"))
	assert.Equal(t, KindTutorial, cc.Kind("M_Tutorial"))
	assert.Equal(t, KindElectiveMember, cc.Kind("E1"))
}

func TestActiveSubjectsPreservesDeclarationOrder(t *testing.T) {
	cc := &ClassConfig{
		Subjects:  []string{"B", "A"},
		Labs:      []string{"C_Lab"},
		Tutorials: []string{"D_Tutorial"},
	}
	assert.Equal(t, []string{"B", "A", "C_Lab", "D_Tutorial"}, cc.ActiveSubjects())
}

func TestLibrarySubjectNameSet(t *testing.T) {
	assert.True(t, IsLibrarySubject("LIB_HH"))
	assert.True(t, IsLibrarySubject("Library"))
	assert.False(t, IsLibrarySubject("L1"))
}
