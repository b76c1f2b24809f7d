package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/pkg/fileutil"
)

// Version is recorded in backup manifests. It is set at build time via ldflags.
var Version = "dev"

const (
	// BackupPrefix is the directory name prefix of every backup.
	BackupPrefix = ".backup-claude-"

	// LabelFormat is the timestamp layout of default backup labels.
	LabelFormat = "20060102_150405"

	// ManifestFile is written into each backup directory.
	ManifestFile = "manifest.json"

	// ManifestVersion is the manifest format version.
	ManifestVersion = 1
)

// ErrBackupCorrupted indicates a backed-up file no longer matches the hash
// recorded in its manifest.
var ErrBackupCorrupted = errors.New("backup corrupted")

// BackupHandle identifies one backup directory.
type BackupHandle struct {
	// Label is the suffix after BackupPrefix.
	Label string `json:"label"`

	// Path is the backup directory.
	Path string `json:"-"`

	CreatedAt time.Time `json:"created_at"`

	// Files lists every copied file with its hash.
	Files []BackupFile `json:"files"`

	// ToolVersion is the version of ccm that wrote the backup.
	ToolVersion string `json:"tool_version"`

	Version int `json:"version"`
}

// BackupFile is one file recorded in a manifest.
type BackupFile struct {
	// RelPath is slash-separated and relative to the backup directory.
	RelPath    string      `json:"rel_path"`
	SHA256Hash string      `json:"sha256_hash"`
	Mode       fs.FileMode `json:"mode"`
}

// Backup copies the registry, the .claude tree and the environment template
// into a new backup directory. An empty label defaults to the current time in
// LabelFormat; if the directory already exists a short unique suffix is
// appended. Artifacts that do not exist are skipped, so a project with no
// configuration still gets an (empty) backup.
//
// Any failure is reported as errors.ErrBackupFailed, the partial backup is
// removed and the live tree is never modified.
func (s *Store) Backup(label string) (*BackupHandle, error) {
	if label == "" {
		label = s.now().Format(LabelFormat)
	}
	if strings.ContainsAny(label, `/\`) || label == "." || label == ".." {
		return nil, errors.Wrapf(errors.ErrBackupFailed, "invalid backup label %q", label)
	}

	dir := filepath.Join(s.root, BackupPrefix+label)
	if fileutil.Exists(dir) {
		label = label + "-" + uuid.NewString()[:8]
		dir = filepath.Join(s.root, BackupPrefix+label)
	}

	h, err := s.writeBackup(dir, label)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, errors.Mark(errors.Wrapf(err, "backing up %s", s.root), errors.ErrBackupFailed)
	}

	s.logger.Info("backup created", "path", h.Path, "files", len(h.Files))
	return h, nil
}

func (s *Store) writeBackup(dir, label string) (*BackupHandle, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating backup directory")
	}

	if fileutil.IsDir(s.ClaudePath()) {
		if err := fileutil.CopyDir(s.ClaudePath(), filepath.Join(dir, ClaudeDir)); err != nil {
			return nil, err
		}
	}
	for _, name := range []string{RegistryFile, EnvTemplateFile} {
		src := filepath.Join(s.root, name)
		if !fileutil.Exists(src) {
			continue
		}
		if err := fileutil.CopyFile(src, filepath.Join(dir, name)); err != nil {
			return nil, err
		}
	}

	files, err := hashTree(dir)
	if err != nil {
		return nil, err
	}

	h := &BackupHandle{
		Label:       label,
		Path:        dir,
		CreatedAt:   s.now().UTC(),
		Files:       files,
		ToolVersion: Version,
		Version:     ManifestVersion,
	}
	if err := fileutil.AtomicWriteJSON(filepath.Join(dir, ManifestFile), h); err != nil {
		return nil, errors.Wrap(err, "writing manifest")
	}
	return h, nil
}

// Restore replaces each live artifact present in the backup with the
// backup's copy. Artifacts missing from the backup leave the live ones
// untouched. When the backup has a manifest, every file is verified first
// and a mismatch aborts with ErrBackupCorrupted before anything is written.
func (s *Store) Restore(h *BackupHandle) error {
	if h == nil || h.Path == "" {
		return errors.Wrap(errors.ErrNotFound, "no backup given")
	}
	if !fileutil.IsDir(h.Path) {
		return errors.Wrapf(errors.ErrNotFound, "backup %s", h.Path)
	}
	if err := verify(h); err != nil {
		return err
	}

	if src := filepath.Join(h.Path, RegistryFile); fileutil.Exists(src) {
		if err := restoreFile(src, s.RegistryPath()); err != nil {
			return err
		}
	}
	if src := filepath.Join(h.Path, ClaudeDir); fileutil.IsDir(src) {
		if err := fileutil.ReplaceDir(src, s.ClaudePath()); err != nil {
			return errors.Wrap(err, "restoring .claude")
		}
	}
	if src := filepath.Join(h.Path, EnvTemplateFile); fileutil.Exists(src) {
		if err := restoreFile(src, s.EnvTemplatePath()); err != nil {
			return err
		}
	}

	s.logger.Info("backup restored", "path", h.Path)
	return nil
}

func restoreFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, "reading %s", src)
	}
	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrapf(err, "stating %s", src)
	}
	if err := fileutil.AtomicWriteFile(dst, data, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, "restoring %s", filepath.Base(dst))
	}
	return nil
}

func verify(h *BackupHandle) error {
	for _, f := range h.Files {
		p := filepath.Join(h.Path, filepath.FromSlash(f.RelPath))
		got, err := hashFile(p)
		if err != nil {
			return errors.Mark(errors.Wrapf(err, "verifying %s", f.RelPath), ErrBackupCorrupted)
		}
		if got != f.SHA256Hash {
			return errors.Wrapf(ErrBackupCorrupted, "%s hash mismatch", f.RelPath)
		}
	}
	return nil
}

// ListBackups returns the project's backups, newest first. Directories
// without a readable manifest are listed with a label-derived timestamp
// when the label parses, otherwise with their modification time.
func (s *Store) ListBackups() ([]BackupHandle, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupHandle{}, nil
		}
		return nil, errors.Wrapf(err, "reading %s", s.root)
	}

	handles := make([]BackupHandle, 0)
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), BackupPrefix) {
			continue
		}
		h, err := s.loadBackup(e)
		if err != nil {
			s.logger.Debug("skipping unreadable backup", "name", e.Name(), "error", err)
			continue
		}
		handles = append(handles, *h)
	}

	slices.SortFunc(handles, func(a, b BackupHandle) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return handles, nil
}

// FindBackup returns the backup with the given label.
func (s *Store) FindBackup(label string) (*BackupHandle, error) {
	dir := filepath.Join(s.root, BackupPrefix+label)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrapf(errors.ErrNotFound, "backup %q", label)
	}
	return s.loadBackup(fs.FileInfoToDirEntry(info))
}

func (s *Store) loadBackup(e fs.DirEntry) (*BackupHandle, error) {
	dir := filepath.Join(s.root, e.Name())
	label := strings.TrimPrefix(e.Name(), BackupPrefix)

	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err == nil {
		var h BackupHandle
		if err := json.Unmarshal(data, &h); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "parsing manifest"), errors.ErrMalformedConfig)
		}
		h.Path = dir
		h.Label = label
		return &h, nil
	}
	if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "reading manifest")
	}

	h := &BackupHandle{Label: label, Path: dir}
	if t, perr := time.ParseInLocation(LabelFormat, label, time.Local); perr == nil {
		h.CreatedAt = t.UTC()
	} else if info, ierr := e.Info(); ierr == nil {
		h.CreatedAt = info.ModTime().UTC()
	}
	return h, nil
}

// hashTree records every regular file under root except the manifest.
func hashTree(root string) ([]BackupFile, error) {
	var files []BackupFile
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if rel == ManifestFile {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		sum, err := hashFile(p)
		if err != nil {
			return err
		}
		files = append(files, BackupFile{
			RelPath:    filepath.ToSlash(rel),
			SHA256Hash: sum,
			Mode:       info.Mode().Perm(),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "hashing backup")
	}
	return files, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
