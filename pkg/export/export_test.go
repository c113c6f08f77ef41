package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRendersRowsInHeaderOrder(t *testing.T) {
	data, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"name", "username", "password"},
		Rows: []map[string]string{
			{"name": "Mr. Arun Kumar", "username": "arun.kumar", "password": "s3cret"},
			{"name": "Mrs. Devi", "username": "devi", "password": "p4ss"},
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,username,password", lines[0])
	assert.Equal(t, "Mr. Arun Kumar,arun.kumar,s3cret", lines[1])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRendersClassGrid(t *testing.T) {
	days := make([][]string, 6)
	for d := range days {
		days[d] = []string{"L1 (T1)", "L2 (T2)", "--- FREE ---", "LIB_HH (T1)", "L1 (T1)", "L2 (T2)", "--- FREE ---"}
	}

	data, err := NewPDFExporter().Render([]TimetablePDF{{ClassName: "CSE-A", Days: days}})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestPDFExporterRejectsEmptyInput(t *testing.T) {
	_, err := NewPDFExporter().Render(nil)
	assert.Error(t, err)
}
