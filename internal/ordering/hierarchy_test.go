package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestReconstruct_IndentedSectionsAndWorks(t *testing.T) {
	rows := []Row{
		{Index: 1, Code: "A", Name: "Earthworks"},
		{Index: 2, Code: "B", Name: "  Excavation"},
		{Index: 3, Code: "C", Name: "  Backfill", Unit: "m3"},
		{Index: 4, Code: "D", Name: "    Trenching", Unit: "m3"},
		{Index: 5, Code: "E", Name: "Cleanup", Unit: "m3"},
	}

	nodes, errs := Reconstruct(rows, LevelFromIndent)
	require.Empty(t, errs)
	require.Len(t, nodes, 5)

	var levels []int
	var sections []bool
	var parents []string
	for _, n := range nodes {
		levels = append(levels, n.Level)
		sections = append(sections, n.IsSection)
		parents = append(parents, n.ParentCode)
	}
	assert.Equal(t, []int{0, 1, 1, 2, 0}, levels)
	assert.Equal(t, []bool{true, true, false, false, false}, sections)
	assert.Equal(t, []string{"", "A", "A", "B", ""}, parents)
	assert.Equal(t, "Excavation", nodes[1].Name, "indent trimmed from name")
}

func TestReconstruct_EqualLevelsAreSiblings(t *testing.T) {
	rows := []Row{
		{Index: 1, Code: "1", Name: "Section 1"},
		{Index: 2, Code: "2", Name: "Section 2"},
		{Index: 3, Code: "2.1", Name: "  Work", Unit: "pcs"},
	}

	nodes, errs := Reconstruct(rows, LevelFromIndent)
	require.Empty(t, errs)
	assert.Equal(t, "", nodes[1].ParentCode)
	assert.Equal(t, "2", nodes[2].ParentCode)
}

func TestReconstruct_ShallowerSectionClosesDeeperOnes(t *testing.T) {
	rows := []Row{
		{Index: 1, Code: "1", Name: "Root"},
		{Index: 2, Code: "1.1", Name: "    Deep"},
		{Index: 3, Code: "1.2", Name: "  Mid"},
		{Index: 4, Code: "1.2.1", Name: "      Leaf", Unit: "m"},
	}

	nodes, errs := Reconstruct(rows, LevelFromIndent)
	require.Empty(t, errs)
	assert.Equal(t, "1", nodes[1].ParentCode)
	assert.Equal(t, "1", nodes[2].ParentCode)
	assert.Equal(t, "1.2", nodes[3].ParentCode, "1.1 was closed by the shallower 1.2")
}

func TestReconstruct_LevelFromCode(t *testing.T) {
	rows := []Row{
		{Index: 1, Code: "1", Name: "Section"},
		{Index: 2, Code: "1.1", Name: "Subsection"},
		{Index: 3, Code: "1.1.1", Name: "Work", Unit: "m2"},
		{Index: 4, Code: "2.", Name: "Other", Unit: "m2"},
	}

	nodes, errs := Reconstruct(rows, LevelFromCode)
	require.Empty(t, errs)
	assert.Equal(t, 0, nodes[0].Level)
	assert.Equal(t, 1, nodes[1].Level)
	assert.Equal(t, 2, nodes[2].Level)
	assert.Equal(t, "1.1", nodes[2].ParentCode)
	assert.Equal(t, 0, nodes[3].Level, "trailing dot ignored")
}

func TestReconstruct_ExplicitLevelWins(t *testing.T) {
	rows := []Row{
		{Index: 1, Code: "S", Name: "Section"},
		{Index: 2, Code: "W", Name: "Work", Unit: "t", Level: intPtr(3)},
	}

	nodes, errs := Reconstruct(rows, LevelFromIndent)
	require.Empty(t, errs)
	assert.Equal(t, 3, nodes[1].Level)
	assert.Equal(t, "S", nodes[1].ParentCode)
}

func TestReconstruct_TabsCountAsOneLevel(t *testing.T) {
	assert.Equal(t, 2, DeriveLevel(Row{Name: "\t\tX"}, LevelFromIndent))
	assert.Equal(t, 2, DeriveLevel(Row{Name: "\t  X"}, LevelFromIndent))
	assert.Equal(t, 1, DeriveLevel(Row{Name: "   X"}, LevelFromIndent), "odd spaces round down")
}

func TestReconstruct_RowErrors(t *testing.T) {
	rows := []Row{
		{Index: 1, Code: "1", Name: "Section"},
		{Index: 2, Code: "1", Name: "  Duplicate", Unit: "m"},
		{Index: 3, Code: "", Name: "No code", Unit: "m"},
		{Index: 4, Code: "4", Name: "   ", Unit: "m"},
		{Index: 5, Code: "5", Name: "Bad level", Level: intPtr(-1)},
		{Index: 6, Code: "6", Name: "  Kept", Unit: "m"},
	}

	nodes, errs := Reconstruct(rows, LevelFromIndent)

	require.Len(t, nodes, 2)
	assert.Equal(t, "1", nodes[0].Code)
	assert.Equal(t, "6", nodes[1].Code)
	assert.Equal(t, "1", nodes[1].ParentCode)

	require.Len(t, errs, 4)
	assert.Equal(t, 2, errs[0].Row)
	assert.Contains(t, errs[0].Reason, "duplicate code")
	assert.Contains(t, errs[1].Reason, "missing code")
	assert.Contains(t, errs[2].Reason, "missing name")
	assert.Contains(t, errs[3].Reason, "negative level")
	assert.Equal(t, "row 2 (1): duplicate code (first seen in row 1)", errs[0].Error())
}

func TestReconstruct_RejectedSectionNeverParents(t *testing.T) {
	rows := []Row{
		{Index: 1, Code: "A", Name: "Section A"},
		{Index: 2, Code: "A", Name: "  Dup section"},
		{Index: 3, Code: "B", Name: "    Work", Unit: "m"},
	}

	nodes, errs := Reconstruct(rows, LevelFromIndent)
	require.Len(t, errs, 1)
	require.Len(t, nodes, 2)
	assert.Equal(t, "A", nodes[1].ParentCode)
}

func TestParseLevelMode(t *testing.T) {
	m, err := ParseLevelMode("")
	require.NoError(t, err)
	assert.Equal(t, LevelFromIndent, m)

	m, err = ParseLevelMode("CODE")
	require.NoError(t, err)
	assert.Equal(t, LevelFromCode, m)

	_, err = ParseLevelMode("depth")
	assert.Error(t, err)
}
