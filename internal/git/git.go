// Package git wraps the git executable for the operations remote sync and
// project creation need.
//
// Every command runs non-interactively (GIT_TERMINAL_PROMPT=0) under the
// caller's context; output is captured and attached to returned errors.
package git

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/thoreinstein/ccm/internal/errors"
)

// ErrInvalidURL indicates a repository URL that ccm refuses to pass to git.
var ErrInvalidURL = errors.New("invalid repository URL")

var allowedSchemes = map[string]bool{
	"https": true,
	"http":  true,
	"ssh":   true,
	"git":   true,
	"file":  true,
}

// scpLike matches user@host:path.git.
var scpLike = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+:[A-Za-z0-9._/~-]+\.git$`)

// ValidateURL accepts URLs with an allowed scheme and scp-like SSH
// addresses ending in .git. Values that git could read as an option or a
// transport helper (ext::) are rejected.
func ValidateURL(raw string) error {
	if raw == "" {
		return errors.Wrap(ErrInvalidURL, "empty URL")
	}
	if strings.HasPrefix(raw, "-") || strings.Contains(raw, "::") {
		return errors.Wrapf(ErrInvalidURL, "%q", raw)
	}
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return errors.Mark(errors.Wrapf(err, "parsing %q", raw), ErrInvalidURL)
		}
		if !allowedSchemes[u.Scheme] {
			return errors.Wrapf(ErrInvalidURL, "scheme %q not allowed", u.Scheme)
		}
		return nil
	}
	if scpLike.MatchString(raw) {
		return nil
	}
	return errors.Wrapf(ErrInvalidURL, "%q", raw)
}

// run executes git with args in dir and returns trimmed stdout.
func run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		if msg != "" {
			return "", errors.Wrapf(err, "git %s: %s", args[0], msg)
		}
		return "", errors.Wrapf(err, "git %s", args[0])
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Init creates a repository in dir.
func Init(ctx context.Context, dir string) error {
	_, err := run(ctx, dir, "init")
	return err
}

// Clone clones branch of url into dest. A depth above zero makes a shallow
// clone; an empty branch uses the remote's default.
func Clone(ctx context.Context, rawURL, dest, branch string, depth int) error {
	if err := ValidateURL(rawURL); err != nil {
		return err
	}
	args := []string{"clone"}
	if depth > 0 {
		args = append(args, "--depth="+strconv.Itoa(depth))
	}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, "--", rawURL, dest)

	if _, err := run(ctx, "", args...); err != nil {
		return errors.Wrap(err, "git clone failed")
	}
	return nil
}

// AddAll stages every change in the work tree, including deletions.
func AddAll(ctx context.Context, repoPath string) error {
	_, err := run(ctx, repoPath, "add", "-A")
	return err
}

// IsDirty reports whether the work tree or index has changes.
func IsDirty(ctx context.Context, repoPath string) (bool, error) {
	out, err := run(ctx, repoPath, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// Commit records the staged changes with message.
func Commit(ctx context.Context, repoPath, message string) error {
	_, err := run(ctx, repoPath, "commit", "-m", message)
	return err
}

// Push pushes the current branch to origin.
func Push(ctx context.Context, repoPath string) error {
	if _, err := run(ctx, repoPath, "push", "origin", "HEAD"); err != nil {
		return errors.Wrap(err, "git push failed")
	}
	return nil
}

// ValidateRemote checks that repoPath contains a .git directory.
func ValidateRemote(repoPath string) error {
	gitDir := filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitDir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf("not a git repository: %s", repoPath)
		}
		return errors.Wrap(err, "checking git directory")
	}
	if !info.IsDir() {
		return errors.Newf(".git is not a directory: %s", gitDir)
	}
	return nil
}
