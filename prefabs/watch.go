package prefabs

import (
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceWindow is how long a file must stay quiet before its change is
// reported; editors usually write a file several times per save.
const DebounceWindow = 100 * time.Millisecond

type ChangeKind int

const (
	ChangeSpec ChangeKind = iota + 1
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeSpec:
		return "spec"
	case ChangeScript:
		return "script"
	}
	return "unknown"
}

// Change reports a modified prefab, level or penalty script.
type Change struct {
	Path string
	Kind ChangeKind
}

// Watcher watches prefab and level directories, including their
// subdirectories, and reports changes to yaml and tengo files.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	settled chan settle
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := addTree(w, dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		settled: make(chan settle),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// settle marks the end of a quiet window for one path. seq identifies the
// event that armed the timer so a superseded timer is ignored.
type settle struct {
	path string
	seq  int
}

type pendingChange struct {
	kind  ChangeKind
	seq   int
	timer *time.Timer
}

func (w *Watcher) run() {
	defer close(w.done)
	pending := make(map[string]*pendingChange)
	defer func() {
		for _, p := range pending {
			p.timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind, ok := classify(event.Name)
			if !ok {
				continue
			}
			w.arm(pending, event.Name, kind)
		case s := <-w.settled:
			p, ok := pending[s.path]
			if !ok || p.seq != s.seq {
				continue
			}
			delete(pending, s.path)
			select {
			case w.Events <- Change{Path: s.path, Kind: p.kind}:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// arm restarts the quiet window for path.
func (w *Watcher) arm(pending map[string]*pendingChange, path string, kind ChangeKind) {
	p, ok := pending[path]
	if !ok {
		p = &pendingChange{}
		pending[path] = p
	} else {
		p.timer.Stop()
	}
	p.kind = kind
	p.seq++
	s := settle{path: path, seq: p.seq}
	p.timer = time.AfterFunc(DebounceWindow, func() {
		select {
		case w.settled <- s:
		case <-w.closeCh:
		}
	})
}

// addTree registers dir and every directory below it; fsnotify watches are
// not recursive.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.Add(path)
	})
}

func classify(path string) (ChangeKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ChangeSpec, true
	case ".tengo":
		return ChangeScript, true
	}
	return 0, false
}
