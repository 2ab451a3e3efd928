package service

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRenderHeader(t *testing.T) {
	payload, err := NewTemplateService().Render()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "Title,Announcement Type,Category,Description,Start Date,End Date", strings.TrimSpace(lines[0]))
}

func TestTemplateRenderRoundTripsThroughParser(t *testing.T) {
	payload, err := NewTemplateService().Render()
	require.NoError(t, err)

	rows, err := NewBulkImportPipeline(0).ParseSheet(bytes.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Maintenance window", rows[0].Title)
	assert.Equal(t, "01/12/2026", rows[0].StartDate)
}
