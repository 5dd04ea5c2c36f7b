package revision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/signadot/projdiff/debug"
)

var ErrNoContent = errors.New("revision has no stored content")

// Runner runs git with args in dir and returns its standard output.
type Runner func(ctx context.Context, dir string, args ...string) ([]byte, error)

// ExecGit is the Runner using the git executable.
func ExecGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	stderr := bytes.NewBuffer(nil)
	cmd.Stderr = stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// Git is the Source for a project file in a git work tree.
type Git struct {
	File string
	Run  Runner
}

func NewGit(file string) *Git {
	return &Git{File: file, Run: ExecGit}
}

const (
	logSep    = "\x1f"
	logFormat = "--format=%H%x1f%an%x1f%ae%x1f%aI%x1f%s"
)

// Revisions returns the file revision when the file has unstaged
// changes, the staged revision when it has staged changes, then the
// commits touching the file, newest first.
func (g *Git) Revisions(ctx context.Context) ([]Revision, error) {
	top, rel, err := g.paths(ctx)
	if err != nil {
		return nil, err
	}
	status, err := g.Run(ctx, top, "status", "--porcelain", "--", rel)
	if err != nil {
		return nil, err
	}
	log, err := g.Run(ctx, top, "log", logFormat, "--", rel)
	if err != nil {
		return nil, err
	}
	modified, staged := parseStatus(status)
	commits, err := parseLog(log)
	if err != nil {
		return nil, err
	}
	var res []Revision
	if modified {
		res = append(res, Unstaged)
	}
	if staged {
		res = append(res, Staged)
	}
	return append(res, commits...), nil
}

// Content returns the bytes of the file at revision hash.
func (g *Git) Content(ctx context.Context, hash string) ([]byte, error) {
	if p, ok := FilePathFromHash(hash); ok {
		return os.ReadFile(p)
	}
	switch hash {
	case UnstagedHash:
		return os.ReadFile(g.File)
	case MemoryHash, "":
		return nil, fmt.Errorf("%w: %s", ErrNoContent, Label(hash))
	}
	top, rel, err := g.paths(ctx)
	if err != nil {
		return nil, err
	}
	obj := hash + ":" + rel
	if hash == StagedHash {
		obj = ":" + rel
	}
	if debug.Load() {
		debug.Logf("git show %s in %s", obj, top)
	}
	return g.Run(ctx, top, "show", obj)
}

// paths returns the top level directory of the work tree and the path of
// the file relative to it, with forward slashes.
func (g *Git) paths(ctx context.Context) (top, rel string, err error) {
	abs, err := filepath.Abs(g.File)
	if err != nil {
		return "", "", err
	}
	out, err := g.Run(ctx, filepath.Dir(abs), "rev-parse", "--show-toplevel")
	if err != nil {
		return "", "", err
	}
	top = strings.TrimRight(string(out), "\r\n")
	rel, err = filepath.Rel(top, abs)
	if err != nil {
		return "", "", err
	}
	return top, filepath.ToSlash(rel), nil
}

// parseStatus reads `git status --porcelain` output for a single file.
func parseStatus(d []byte) (modified, staged bool) {
	for _, line := range strings.Split(string(d), "\n") {
		if len(line) < 3 || line[:2] == "??" {
			continue
		}
		if line[0] != ' ' {
			staged = true
		}
		if line[1] != ' ' {
			modified = true
		}
	}
	return modified, staged
}

func parseLog(d []byte) ([]Revision, error) {
	var res []Revision
	for _, line := range strings.Split(string(d), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, logSep, 5)
		if len(parts) != 5 {
			return nil, fmt.Errorf("unexpected git log line %q", line)
		}
		date, err := time.Parse(time.RFC3339, parts[3])
		if err != nil {
			return nil, fmt.Errorf("git log date %q: %w", parts[3], err)
		}
		res = append(res, Revision{
			Hash:        parts[0],
			AuthorName:  parts[1],
			AuthorEmail: parts[2],
			Date:        date,
			Message:     parts[4],
		})
	}
	return res, nil
}
