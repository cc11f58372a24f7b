package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"
)

// ErrWorkspaceBusy is returned when another run holds the workspace lock.
var ErrWorkspaceBusy = errors.New("workspace is in use by another run")

// Workspace is the scratch directory a run writes its sheet images and PDFs
// into. It is wiped at the start of every run.
type Workspace struct {
	Dir  string
	lock *flock.Flock
}

// NewWorkspace prepares a workspace rooted at dir. The lock file lives next
// to dir so it survives the reset.
func NewWorkspace(dir string) (*Workspace, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("create workspace parent: %w", err)
	}
	return &Workspace{Dir: abs, lock: flock.New(abs + ".lock")}, nil
}

// Reset takes the workspace lock and replaces the directory with an empty
// one. The fresh directory is created beside the old one and renamed into
// place, so a failure never leaves old and new artifacts mixed.
func (w *Workspace) Reset() error {
	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire workspace lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", w.Dir, ErrWorkspaceBusy)
	}

	parent := filepath.Dir(w.Dir)
	fresh, err := os.MkdirTemp(parent, "."+filepath.Base(w.Dir)+"-new-*")
	if err != nil {
		w.unlock()
		return fmt.Errorf("create workspace: %w", err)
	}

	var stale string
	if _, err := os.Stat(w.Dir); err == nil {
		stale = fresh + "-stale"
		if err := os.Rename(w.Dir, stale); err != nil {
			_ = os.RemoveAll(fresh)
			w.unlock()
			return fmt.Errorf("move old workspace aside: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		_ = os.RemoveAll(fresh)
		w.unlock()
		return fmt.Errorf("stat workspace: %w", err)
	}

	if err := os.Rename(fresh, w.Dir); err != nil {
		if stale != "" {
			_ = os.Rename(stale, w.Dir)
		}
		_ = os.RemoveAll(fresh)
		w.unlock()
		return fmt.Errorf("install workspace: %w", err)
	}
	if err := os.Chmod(w.Dir, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", w.Dir).Msg("could not relax workspace permissions")
	}

	if stale != "" {
		if err := os.RemoveAll(stale); err != nil {
			log.Warn().Err(err).Str("dir", stale).Msg("failed to remove previous workspace")
		}
	}
	log.Debug().Str("dir", w.Dir).Msg("workspace reset")
	return nil
}

// Path joins name onto the workspace directory.
func (w *Workspace) Path(name string) string { return filepath.Join(w.Dir, name) }

// Release drops the workspace lock. The directory and its artifacts stay.
func (w *Workspace) Release() error {
	if !w.lock.Locked() {
		return nil
	}
	return w.lock.Unlock()
}

func (w *Workspace) unlock() {
	if err := w.lock.Unlock(); err != nil {
		log.Warn().Err(err).Str("lock", w.lock.Path()).Msg("failed to release workspace lock")
	}
}
