package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFExporterRendersDocument(t *testing.T) {
	exporter := NewPDFExporter()
	exporter.now = func() time.Time { return time.Date(2024, 3, 6, 8, 15, 0, 0, time.UTC) }

	data := Dataset{
		Headers: []string{"Date", "Name", "Status"},
		Rows: []map[string]string{
			{"Date": "2024-03-06", "Name": "Ada Lovelace", "Status": "Present"},
		},
	}

	out, err := exporter.Render(data, "Attendance Records")
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	exporter := NewPDFExporter()

	_, err := exporter.Render(Dataset{}, "Empty")
	assert.Error(t, err)
}
