package workspace

import (
	"math/rand/v2"
	"testing"

	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/stretchr/testify/require"
)

// randomOp picks an op against the current document. Roughly one in ten
// ops references a missing id so failure paths are exercised too.
func randomOp(r *rand.Rand, doc domain.Workspace) Op {
	noteIDs := doc.NoteIDs()
	pickNote := func() string {
		if len(noteIDs) == 0 || r.IntN(10) == 0 {
			return "missing"
		}
		return noteIDs[r.IntN(len(noteIDs))]
	}

	switch r.IntN(8) {
	case 0, 1:
		return AddNoteOp{Title: "n"}
	case 2:
		return DeleteNoteOp{NoteID: pickNote()}
	case 3:
		order := append([]string(nil), noteIDs...)
		r.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		return ReorderNotesOp{Order: order}
	case 4:
		return AddItemOp{NoteID: pickNote(), Item: domain.Item{Kind: domain.ItemText, Content: "c"}}
	case 5:
		return RenameNoteOp{NoteID: pickNote(), Title: "r"}
	case 6:
		return AddOutlineBlockOp{Kind: domain.BlockParagraph}
	default:
		if len(doc.Outline) == 0 {
			return AddOutlineBlockOp{Kind: domain.BlockHeading}
		}
		return DeleteOutlineBlockOp{BlockID: doc.Outline[r.IntN(len(doc.Outline))].ID}
	}
}

func allIDs(doc domain.Workspace) []string {
	ids := []string{doc.ID}
	for _, n := range doc.Notes {
		ids = append(ids, n.ID)
		for _, it := range n.Items {
			ids = append(ids, it.ID)
		}
	}
	for _, b := range doc.Outline {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestProperty_IDsUniqueAndSelectionConsistent(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		r := rand.New(rand.NewPCG(seed, seed*31))
		s := NewSession(newTestEngine())

		for step := 0; step < 200; step++ {
			op := randomOp(r, s.Document())
			if r.IntN(12) == 0 {
				_, _ = s.AddItem(ActiveNote, domain.Item{Kind: domain.ItemText, Content: "cap"})
			} else {
				_, _ = s.Apply(op)
			}

			doc := s.Document()
			seen := map[string]bool{}
			for _, id := range allIDs(doc) {
				require.False(t, seen[id], "seed %d step %d: duplicate id %s", seed, step, id)
				seen[id] = true
			}
			if id, ok := s.Selection().ID(); ok {
				require.GreaterOrEqual(t, doc.NoteIndex(id), 0,
					"seed %d step %d: selection %s names a missing note", seed, step, id)
			} else {
				require.Empty(t, doc.Notes, "seed %d step %d: notes exist but nothing selected", seed, step)
			}
		}
	}
}

func TestProperty_ReorderKeepsNotesIntact(t *testing.T) {
	e := newTestEngine()
	r := rand.New(rand.NewPCG(7, 11))
	doc, ids := docWithNotes(t, e, "A", "B", "C", "D", "E")
	for i, id := range ids {
		for j := 0; j <= i; j++ {
			doc, _, _ = e.AddItem(doc, id, domain.Item{Kind: domain.ItemText, Content: "x"})
		}
	}
	byID := map[string]domain.Note{}
	for _, n := range doc.Notes {
		byID[n.ID] = n
	}

	for range 50 {
		order := append([]string(nil), ids...)
		r.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		next, err := e.ReorderNotes(doc, order)
		require.NoError(t, err)
		require.Equal(t, order, next.NoteIDs())
		for _, n := range next.Notes {
			require.Equal(t, byID[n.ID], n)
		}
	}
}
