package persistence

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/alexanderramin/prepdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_WireShape(t *testing.T) {
	saved := time.Date(2026, 2, 3, 4, 5, 6, 7, time.UTC)
	doc := domain.Workspace{
		ID:    "ws",
		Title: "T",
		Notes: []domain.Note{{ID: "n1", Title: "N", Items: []domain.Item{{
			ID: "i1", Kind: domain.ItemText, Content: "c", Provenance: domain.ProvenanceWeb,
			Source: &domain.Source{Title: "S", Domain: "d.io"},
		}}}, {ID: "n2", Title: "Empty"}},
		Outline: []domain.OutlineBlock{
			{ID: "b1", Kind: domain.BlockHeading, Level: 2, Text: "H"},
			{ID: "b2", Kind: domain.BlockParagraph},
		},
		LastSavedAt: &saved,
	}

	data, err := Encode(doc)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.EqualValues(t, 1, raw["schemaVersion"])
	assert.Equal(t, "ws", raw["id"])
	assert.Equal(t, "", raw["backgroundContext"])
	assert.Equal(t, "2026-02-03T04:05:06.000000007Z", raw["lastSavedAt"])

	notes := raw["notes"].([]any)
	require.Len(t, notes, 2)
	item := notes[0].(map[string]any)["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "web", item["provenance"])
	assert.Equal(t, map[string]any{"title": "S", "domain": "d.io"}, item["source"])
	assert.Equal(t, []any{}, notes[1].(map[string]any)["items"], "empty items encode as []")

	outline := raw["outline"].([]any)
	assert.EqualValues(t, 2, outline[0].(map[string]any)["level"])
	_, hasLevel := outline[1].(map[string]any)["level"]
	assert.False(t, hasLevel, "paragraphs carry no level")
}

func TestEncode_EmptyDocument(t *testing.T) {
	data, err := Encode(domain.Workspace{ID: "ws"})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"schemaVersion":1,"id":"ws","title":"","backgroundContext":"","notes":[],"outline":[]}`,
		string(data))
}

func TestDecode_RoundTrip(t *testing.T) {
	saved := time.Now().UTC()
	docs := []domain.Workspace{
		{ID: "bare", Title: ""},
		testutil.NewTestWorkspace("Founder interview",
			testutil.WithContext("Series A, 40 people"),
			testutil.WithNote("Funding", "Raised 12M", "Lead: Acme"),
			testutil.WithWebItem("Quote from podcast", "Ep 12", "pod.example.com"),
			testutil.WithNote("Empty bucket"),
			testutil.WithParagraph("Ask about hiring"),
			testutil.WithSavedAt(saved),
		),
	}
	for _, doc := range docs {
		data, err := Encode(doc)
		require.NoError(t, err)
		got, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, doc, got)
	}
}

func TestDecode_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `{{{`},
		{"empty", ``},
		{"array", `[]`},
		{"trailing", `{"schemaVersion":1,"id":"a","title":"","notes":[],"outline":[]} {}`},
		{"wrong version", `{"schemaVersion":2,"id":"a","title":"","notes":[],"outline":[]}`},
		{"missing version", `{"id":"a","title":"","notes":[],"outline":[]}`},
		{"missing id", `{"schemaVersion":1,"title":"","notes":[],"outline":[]}`},
		{"empty id", `{"schemaVersion":1,"id":"","title":"","notes":[],"outline":[]}`},
		{"missing title", `{"schemaVersion":1,"id":"a","notes":[],"outline":[]}`},
		{"missing notes", `{"schemaVersion":1,"id":"a","title":"","outline":[]}`},
		{"null outline", `{"schemaVersion":1,"id":"a","title":"","notes":[],"outline":null}`},
		{"notes wrong shape", `{"schemaVersion":1,"id":"a","title":"","notes":{},"outline":[]}`},
		{"title wrong type", `{"schemaVersion":1,"id":"a","title":5,"notes":[],"outline":[]}`},
		{"note without id", `{"schemaVersion":1,"id":"a","title":"","notes":[{"title":"","items":[]}],"outline":[]}`},
		{"note without items", `{"schemaVersion":1,"id":"a","title":"","notes":[{"id":"n","title":""}],"outline":[]}`},
		{"duplicate note ids", `{"schemaVersion":1,"id":"a","title":"","notes":[{"id":"n","title":"","items":[]},{"id":"n","title":"","items":[]}],"outline":[]}`},
		{"item reuses note id", `{"schemaVersion":1,"id":"a","title":"","notes":[{"id":"n","title":"","items":[{"id":"n","kind":"text","content":"x","provenance":"manual"}]}],"outline":[]}`},
		{"unknown item kind", `{"schemaVersion":1,"id":"a","title":"","notes":[{"id":"n","title":"","items":[{"id":"i","kind":"video","content":"x","provenance":"manual"}]}],"outline":[]}`},
		{"unknown provenance", `{"schemaVersion":1,"id":"a","title":"","notes":[{"id":"n","title":"","items":[{"id":"i","kind":"text","content":"x","provenance":"import"}]}],"outline":[]}`},
		{"source on manual item", `{"schemaVersion":1,"id":"a","title":"","notes":[{"id":"n","title":"","items":[{"id":"i","kind":"text","content":"x","provenance":"manual","source":{"title":"","domain":""}}]}],"outline":[]}`},
		{"empty content", `{"schemaVersion":1,"id":"a","title":"","notes":[{"id":"n","title":"","items":[{"id":"i","kind":"text","content":"","provenance":"manual"}]}],"outline":[]}`},
		{"unknown block kind", `{"schemaVersion":1,"id":"a","title":"","notes":[],"outline":[{"id":"b","kind":"quote","text":""}]}`},
		{"heading without level", `{"schemaVersion":1,"id":"a","title":"","notes":[],"outline":[{"id":"b","kind":"heading","text":""}]}`},
		{"heading level out of range", `{"schemaVersion":1,"id":"a","title":"","notes":[],"outline":[{"id":"b","kind":"heading","level":9,"text":""}]}`},
		{"paragraph with level", `{"schemaVersion":1,"id":"a","title":"","notes":[],"outline":[{"id":"b","kind":"paragraph","level":1,"text":""}]}`},
		{"block without text", `{"schemaVersion":1,"id":"a","title":"","notes":[],"outline":[{"id":"b","kind":"paragraph"}]}`},
		{"bad lastSavedAt", `{"schemaVersion":1,"id":"a","title":"","notes":[],"outline":[],"lastSavedAt":"yesterday"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.payload))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrCorrupt)
		})
	}
}

func TestDecode_IgnoresUnknownFields(t *testing.T) {
	doc, err := Decode([]byte(`{"schemaVersion":1,"id":"a","title":"T","notes":[],"outline":[],"theme":"dark"}`))
	require.NoError(t, err)
	assert.Equal(t, "T", doc.Title)
	assert.Nil(t, doc.Notes)
	assert.Nil(t, doc.Outline)
}
