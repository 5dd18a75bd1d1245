package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFencedBlock(t *testing.T) {
	t.Parallel()

	raw := "Here are the leads you asked for:\n```json\n[{\"company_name\": \"Acme\"}, {\"company_name\": \"Globex\"}]\n```\nLet me know if you need more."

	records := Extract(raw)
	require.Len(t, records, 2)
	assert.Equal(t, "Acme", records[0]["company_name"])
	assert.Equal(t, "Globex", records[1]["company_name"])
}

func TestExtractUnterminatedFence(t *testing.T) {
	t.Parallel()

	records := Extract("```json\n[{\"company_name\": \"Acme\"}]")
	require.Len(t, records, 1)
	assert.Equal(t, "Acme", records[0]["company_name"])
}

func TestExtractMalformedFenceFallsThrough(t *testing.T) {
	t.Parallel()

	// The fenced block is broken, but the text as a whole is not JSON
	// either, so the result is a diagnostic record.
	records := Extract("```json\n{not json}\n```")
	require.Len(t, records, 1)
	assert.Equal(t, "parse_failed", records[0]["error"])
}

func TestExtractWholeTextJSON(t *testing.T) {
	t.Parallel()

	records := Extract(`  [{"company_name": "Acme"}]  `)
	require.Len(t, records, 1)
	assert.Equal(t, "Acme", records[0]["company_name"])
}

func TestExtractSingleObject(t *testing.T) {
	t.Parallel()

	records := Extract(`{"company_name": "Acme", "score": 8}`)
	require.Len(t, records, 1)
	assert.Equal(t, "Acme", records[0]["company_name"])
	assert.Equal(t, float64(8), records[0]["score"])
}

func TestExtractNonObjectElements(t *testing.T) {
	t.Parallel()

	records := Extract(`[{"company_name": "Acme"}, "stray note", 42]`)
	require.Len(t, records, 3)
	assert.Equal(t, "Acme", records[0]["company_name"])
	assert.Equal(t, "stray note", records[1]["raw_output"])
	assert.Equal(t, float64(42), records[2]["raw_output"])
}

func TestExtractScalar(t *testing.T) {
	t.Parallel()

	records := Extract(`"just a string"`)
	require.Len(t, records, 1)
	assert.Equal(t, "just a string", records[0]["raw_output"])
}

func TestExtractTotality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"empty string", ""},
		{"whitespace", "   \n\t  "},
		{"prose", "I could not find any companies matching your criteria."},
		{"truncated json", `[{"company_name": "Ac`},
		{"binary garbage", "\x00\x01\xfffoo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			records := Extract(tt.raw)
			require.Len(t, records, 1)
			assert.Equal(t, "parse_failed", records[0]["error"])
			assert.Contains(t, records[0], "raw")
		})
	}
}

func TestExtractDiagnosticTruncation(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 2000)
	records := Extract(long)
	require.Len(t, records, 1)

	raw, ok := records[0]["raw"].(string)
	require.True(t, ok)
	assert.Equal(t, 501, utf8.RuneCountInString(raw))
	assert.True(t, strings.HasSuffix(raw, "…"))
	assert.Equal(t, strings.Repeat("x", 500), strings.TrimSuffix(raw, "…"))
}

func TestExtractShortDiagnosticNotTruncated(t *testing.T) {
	t.Parallel()

	records := Extract("nope")
	require.Len(t, records, 1)
	assert.Equal(t, "nope", records[0]["raw"])
}

func TestExtractRoundTrip(t *testing.T) {
	t.Parallel()

	// What the final unit is instructed to produce must come back intact.
	raw := "```json\n[{\"company_name\":\"Acme\",\"website_url\":\"https://acme.example\",\"location\":{\"city\":\"Berlin\",\"country\":\"Germany\"},\"score\":9}]\n```"
	records := Extract(raw)
	require.Len(t, records, 1)
	assert.Equal(t, "https://acme.example", records[0]["website_url"])
	loc, ok := records[0]["location"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Berlin", loc["city"])
}
