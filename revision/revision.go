// Package revision names and loads the snapshots of a project document
// that can be compared: the in-memory document, the file on disk, the git
// index, git commits and arbitrary files.
package revision

import (
	"context"
	"os"
	"strings"
	"time"
)

const (
	MemoryHash   = "memory"
	UnstagedHash = "unstaged"
	StagedHash   = "staged"

	FilePathHashPrefix = "file_path:"
)

// Revision identifies one snapshot of a project document.
type Revision struct {
	Hash        string
	Message     string
	Date        time.Time
	AuthorName  string
	AuthorEmail string
}

func (r Revision) String() string {
	return Label(r.Hash)
}

var (
	Memory   = Revision{Hash: MemoryHash, Message: Label(MemoryHash)}
	Unstaged = Revision{Hash: UnstagedHash, Message: Label(UnstagedHash)}
	Staged   = Revision{Hash: StagedHash, Message: Label(StagedHash)}
)

// Source lists revisions of a project file and reads their content.
type Source interface {
	Revisions(ctx context.Context) ([]Revision, error)
	Content(ctx context.Context, hash string) ([]byte, error)
}

func HashFromFilePath(p string) string {
	return FilePathHashPrefix + p
}

// FilePathFromHash returns the file named by a file path hash.
func FilePathFromHash(hash string) (string, bool) {
	if !strings.HasPrefix(hash, FilePathHashPrefix) {
		return "", false
	}
	return hash[len(FilePathHashPrefix):], true
}

// Label returns the display label of hash.
func Label(hash string) string {
	switch hash {
	case "":
		return "[None]"
	case MemoryHash:
		return "[Memory content]"
	case UnstagedHash:
		return "[File content]"
	case StagedHash:
		return "[Staged]"
	}
	if p, ok := FilePathFromHash(hash); ok {
		return p
	}
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

// Parse turns a command line revision argument into a hash. Special hashes
// and file path hashes are kept, existing files become file path hashes
// and anything else is taken as a git revision. "" and "none" give "".
func Parse(arg string) string {
	switch arg {
	case "", "none":
		return ""
	case MemoryHash, UnstagedHash, StagedHash:
		return arg
	}
	if _, ok := FilePathFromHash(arg); ok {
		return arg
	}
	if fi, err := os.Stat(arg); err == nil && !fi.IsDir() {
		return HashFromFilePath(arg)
	}
	return arg
}

// State is the revision list of a project with the revision selected for
// display and, optionally, the revision to compare it against.
type State struct {
	Revisions []Revision
	Selected  string
	Compare   string
}

// Lookup returns the revision for hash. Special and file path hashes are
// always known, commits only if listed.
func (s *State) Lookup(hash string) (Revision, bool) {
	if _, ok := FilePathFromHash(hash); ok {
		return Revision{Hash: hash, Message: hash}, true
	}
	switch hash {
	case MemoryHash:
		return Memory, true
	case UnstagedHash:
		return Unstaged, true
	case StagedHash:
		return Staged, true
	}
	for _, r := range s.Revisions {
		if r.Hash == hash {
			return r, true
		}
	}
	return Revision{}, false
}

// ComparePair returns the revisions to diff. With a compare revision set,
// that is the before revision; otherwise it is the revision following the
// selected one in the list. Either result may be nil.
func (s *State) ComparePair() (before, after *Revision) {
	if s.Selected == "" {
		return nil, nil
	}
	if s.Compare != "" {
		if r, ok := s.Lookup(s.Selected); ok {
			after = &r
		}
		if r, ok := s.Lookup(s.Compare); ok {
			before = &r
		}
		return before, after
	}
	for i := range s.Revisions {
		if s.Revisions[i].Hash != s.Selected {
			continue
		}
		after = &s.Revisions[i]
		if i+1 < len(s.Revisions) {
			before = &s.Revisions[i+1]
		}
		break
	}
	return before, after
}

// Refresh replaces the revision list by the memory revision followed by
// the revisions of src. If src fails the list falls back to the memory
// and file revisions and the error is returned for reporting.
func (s *State) Refresh(ctx context.Context, src Source) error {
	revs, err := src.Revisions(ctx)
	if err != nil {
		revs = []Revision{Unstaged}
	}
	s.Revisions = append([]Revision{Memory}, revs...)
	return err
}
