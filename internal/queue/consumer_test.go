package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandleMessageAppendsLogLine(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	ev := ListingClaimedEvent{
		ListingID:  42,
		Title:      "Half a lasagna",
		OwnerID:    7,
		OwnerName:  "Alice",
		ReceiverID: 9,
		ClaimedAt:  "2026-09-01T12:00:00Z",
	}
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	require.NoError(t, handleMessage(body))
	require.NoError(t, handleMessage(body))

	bs, err := os.ReadFile(filepath.Join(dir, "logs", "claims.log"))
	require.NoError(t, err)
	content := string(bs)
	require.Contains(t, content, "listing_id=42")
	require.Contains(t, content, `title="Half a lasagna"`)
	require.Contains(t, content, "receiver_id=9")
	require.Equal(t, 2, strings.Count(content, "\n"), "one line per message")
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	require.Error(t, handleMessage([]byte("not json")))
}
