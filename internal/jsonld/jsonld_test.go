package jsonld

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatePostedObject(t *testing.T) {
	date, err := DatePosted(`{"@type":"JobPosting","datePosted":"2025-10-08T10:00:00Z"}`)
	require.NoError(t, err)
	assert.Equal(t, "2025-10-08", date)
}

func TestDatePostedList(t *testing.T) {
	date, err := DatePosted(`[{"datePosted":"2025-09-01T00:00:00Z"}]`)
	require.NoError(t, err)
	assert.Equal(t, "2025-09-01", date)
}

func TestDatePostedGraph(t *testing.T) {
	raw := `{"@context":"https://schema.org","@graph":[
		{"@type":"Organization","name":"ACME"},
		{"@type":"JobPosting","datePosted":"2025-10-07T00:00:00Z"}
	]}`
	date, err := DatePosted(raw)
	require.NoError(t, err)
	assert.Equal(t, "2025-10-07", date)
}

func TestDatePostedErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"malformed", `{"datePosted":`},
		{"missing key", `{"@type":"JobPosting"}`},
		{"empty list", `[]`},
		{"list of scalars", `["2025-10-08"]`},
		{"graph without posting", `{"@graph":[{"@type":"Organization"}]}`},
		{"scalar payload", `"2025-10-08"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DatePosted(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestDatePostedWithoutTimePart(t *testing.T) {
	date, err := DatePosted(`{"datePosted":"2025-10-08"}`)
	require.NoError(t, err)
	assert.Equal(t, "2025-10-08", date)
}

func TestDateOnly(t *testing.T) {
	assert.Equal(t, "2025-10-08", DateOnly("2025-10-08T10:00:00Z"))
	assert.Equal(t, "2025-10-08", DateOnly("2025-10-08"))
}
