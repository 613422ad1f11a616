package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-json"
	"go.uber.org/atomic"

	"qatrack/database/model"
	"qatrack/logger"
)

// FileStore keeps the whole collection in memory and rewrites the JSON file
// on every mutation. The rewrite goes through a temp file and a rename, so a
// crashed write leaves the previous file intact. Writers inside the process
// are serialized by the mutex; external writers are picked up by the watcher
// instead of being coordinated.
type FileStore struct {
	path string

	mu      sync.Mutex
	reports []model.Report
	nextId  int64

	watcher *fsnotify.Watcher
	// lastWrite is the unix-nano of our own latest rewrite, used to tell
	// our rename apart from an external edit.
	lastWrite atomic.Int64
	done      chan struct{}
}

// NewFileStore loads (or creates) the collection at path and starts watching
// it for external changes.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), fs.ModePerm); err != nil {
		return nil, err
	}

	s := &FileStore{
		path: path,
		done: make(chan struct{}),
	}
	if err := s.load(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: the rename dance replaces the file inode.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}
	s.watcher = watcher
	go s.watch()

	return s, nil
}

// Close stops the watcher.
func (s *FileStore) Close() error {
	close(s.done)
	return s.watcher.Close()
}

func (s *FileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *FileStore) loadLocked() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.reports = make([]model.Report, 0)
		s.nextId = 1
		return nil
	}
	if err != nil {
		return err
	}

	reports := make([]model.Report, 0)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &reports); err != nil {
			return err
		}
	}
	s.reports = reports
	s.nextId = 1
	for _, r := range reports {
		if r.Id >= s.nextId {
			s.nextId = r.Id + 1
		}
	}
	return nil
}

// persistLocked rewrites the whole collection atomically. Caller holds mu.
func (s *FileStore) persistLocked() error {
	data, err := json.MarshalIndent(s.reports, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".reportes-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	s.lastWrite.Store(time.Now().UnixNano())
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

func (s *FileStore) watch() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Own rewrites raise events too; skip anything close to them.
			if time.Since(time.Unix(0, s.lastWrite.Load())) < time.Second {
				continue
			}
			logger.Infof("data file %s changed on disk, reloading", s.path)
			if err := s.load(); err != nil {
				logger.Warning("reload of data file failed:", err)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warning("data file watcher error:", err)
		}
	}
}

func (s *FileStore) List() ([]model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Report, len(s.reports))
	copy(out, s.reports)
	sort.Slice(out, func(i, j int) bool { return out[i].Id > out[j].Id })
	return out, nil
}

func (s *FileStore) Get(id string) (*model.Report, error) {
	n, err := parseId(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reports {
		if r.Id == n {
			found := r
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) Create(f Fields) (*model.Report, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := f.newReport()
	r.Id = s.nextId
	r.CreatedAt = time.Now().Unix()

	s.reports = append(s.reports, r)
	if err := s.persistLocked(); err != nil {
		s.reports = s.reports[:len(s.reports)-1]
		return nil, err
	}
	s.nextId++
	return &r, nil
}

func (s *FileStore) Patch(id string, p Patch) (*model.Report, error) {
	n, err := parseId(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.reports {
		if r.Id != n {
			continue
		}
		merged, err := p.apply(r)
		if err != nil {
			return nil, err
		}
		s.reports[i] = merged
		if err := s.persistLocked(); err != nil {
			s.reports[i] = r
			return nil, err
		}
		return &merged, nil
	}
	return nil, ErrNotFound
}

func (s *FileStore) Delete(id string) error {
	n, err := parseId(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.reports {
		if r.Id != n {
			continue
		}
		removed := r
		s.reports = append(s.reports[:i], s.reports[i+1:]...)
		if err := s.persistLocked(); err != nil {
			s.reports = append(s.reports, removed)
			return err
		}
		return nil
	}
	return ErrNotFound
}
