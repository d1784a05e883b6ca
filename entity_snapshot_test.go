package hollowmere

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"
)

// jsonDiff renders a unified diff between two pretty-printed JSON
// documents, mirroring the teacher's generateUnifiedDiff (cmd/dive/cli/
// diff.go's difflib.UnifiedDiff + GetUnifiedDiffString) so an entity
// snapshot mismatch reads as a reviewable patch instead of two dumped
// blobs.
func jsonDiff(t *testing.T, label string, want, got []byte) string {
	t.Helper()
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(prettyJSON(t, want)),
		B:        difflib.SplitLines(prettyJSON(t, got)),
		FromFile: label + " (want)",
		ToFile:   label + " (got)",
		Context:  3,
	}
	out, err := difflib.GetUnifiedDiffString(diff)
	require.NoError(t, err)
	return out
}

func prettyJSON(t *testing.T, raw []byte) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.Indent(&buf, raw, "", "  "))
	return buf.String()
}

func requireSnapshotEqual(t *testing.T, label string, want, got []byte) {
	t.Helper()
	if bytes.Equal(bytes.TrimSpace(want), bytes.TrimSpace(got)) {
		return
	}
	t.Fatalf("%s snapshot mismatch:\n%s", label, jsonDiff(t, label, want, got))
}

// TestEntitySnapshotRoundTripsThroughPersistedWireFormat builds an
// entity, takes its snapshot, unmarshals that snapshot into a fresh
// Entity, and requires the two snapshots to be byte-for-byte equal —
// the property Session relies on when it diffs pre- and post-session
// state at commit time (spec §4.4 commit algorithm step 3).
func TestEntitySnapshotRoundTripsThroughPersistedWireFormat(t *testing.T) {
	e := &Entity{Key: "e1", Class: ClassItem, Version: 1}
	e.SetName("torch")
	e.SetDesc("a guttering torch")
	require.NoError(t, ReplaceScope(e, Carryable{Kind: NewKind("torch"), Quantity: 1}))

	want := e.snapshot()

	var roundTripped Entity
	require.NoError(t, json.Unmarshal(want, &roundTripped))

	requireSnapshotEqual(t, "entity "+string(e.Key), want, roundTripped.snapshot())
}

// TestEntitySnapshotDiffSurfacesChangedField checks that a later SetDesc
// is visible as a one-field diff against the entity's earlier snapshot,
// so a failing snapshot assertion in a real test names the field that
// drifted rather than forcing the reader to eyeball two blobs.
func TestEntitySnapshotDiffSurfacesChangedField(t *testing.T) {
	e := &Entity{Key: "e1", Class: ClassItem, Version: 1}
	e.SetName("torch")
	before := e.snapshot()

	e.SetDesc("a guttering torch")
	after := e.snapshot()

	require.NotEqual(t, string(before), string(after))
	diff := jsonDiff(t, "entity "+string(e.Key), before, after)
	require.Contains(t, diff, `"desc"`)
}
