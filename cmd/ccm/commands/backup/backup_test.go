package backup

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/store"
)

func init() {
	color.NoColor = true
}

func newProject(t *testing.T) (string, *store.Store) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".mcp.json"), []byte(`{"mcpServers":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	clock := time.Date(2026, 1, 23, 10, 7, 12, 0, time.UTC)
	return dir, store.New(dir, store.WithClock(func() time.Time { return clock }))
}

func mustBackup(t *testing.T, s *store.Store, label string) {
	t.Helper()
	if _, err := s.Backup(label); err != nil {
		t.Fatalf("Backup(%q) error = %v", label, err)
	}
}

func TestList(t *testing.T) {
	_, s := newProject(t)

	var buf bytes.Buffer
	if err := runListWithWriter(&buf, s); err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(buf.String(), "No backups available") {
		t.Errorf("empty list output = %q", buf.String())
	}

	mustBackup(t, s, "")

	buf.Reset()
	if err := runListWithWriter(&buf, s); err != nil {
		t.Fatalf("list error = %v", err)
	}
	for _, want := range []string{"LABEL", "20260123_100712"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("list output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestList_JSON(t *testing.T) {
	listJSON = true
	t.Cleanup(func() { listJSON = false })
	_, s := newProject(t)
	mustBackup(t, s, "before-import")

	var buf bytes.Buffer
	if err := runListWithWriter(&buf, s); err != nil {
		t.Fatalf("list error = %v", err)
	}

	var got []infoOutput
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decoding list: %v\n%s", err, buf.String())
	}
	if len(got) != 1 {
		t.Fatalf("got %d backups, want 1", len(got))
	}
	if got[0].Label != "before-import" || got[0].FileCount != 1 {
		t.Errorf("backup = %+v, want label before-import with 1 file", got[0])
	}
}

func TestRestore(t *testing.T) {
	dir, s := newProject(t)
	mustBackup(t, s, "saved")
	if err := os.WriteFile(filepath.Join(dir, ".mcp.json"), []byte(`{"mcpServers":{"x":{"command":"x"}}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := runRestoreWithWriter(&buf, s, ""); err != nil {
		t.Fatalf("restore error = %v", err)
	}
	if !strings.Contains(buf.String(), "✓ Restored backup saved") {
		t.Errorf("restore output = %q", buf.String())
	}

	data, err := os.ReadFile(filepath.Join(dir, ".mcp.json"))
	if err != nil {
		t.Fatal(err)
	}
	var got any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("restored registry is not JSON: %v", err)
	}
	if want := map[string]any{"mcpServers": map[string]any{}}; !reflect.DeepEqual(got, want) {
		t.Errorf("restored registry = %s, want the backed up empty table", data)
	}
}

func TestRestore_NotFound(t *testing.T) {
	_, s := newProject(t)

	if err := runRestoreWithWriter(&bytes.Buffer{}, s, ""); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("restore latest with no backups error = %v, want ErrNotFound", err)
	}
	if err := runRestoreWithWriter(&bytes.Buffer{}, s, "missing"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("restore missing label error = %v, want ErrNotFound", err)
	}
}
