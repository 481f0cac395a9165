// source_file.go: File-backed change-token source
//
// FileSource is the reference TokenSource: a polling single-file watcher
// that detects modification through stat comparison, re-parses the document,
// and rotates a fresh token generation per change. Polling keeps behavior
// identical across operating systems; stat results are cached briefly via
// timecache timestamps to bound syscall cost on tight intervals.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/go-errors"
	"github.com/agilira/go-timecache"
)

// FileSourceConfig configures a FileSource.
type FileSourceConfig struct {
	// InstanceName is the options name this source signals changes for.
	// Empty selects the default (unnamed) instance.
	InstanceName string

	// PollInterval is how often to check the file for changes.
	// Default: 5 seconds.
	PollInterval time.Duration

	// CacheTTL is how long a stat result stays fresh before the poller
	// re-stats the file. Should be <= PollInterval. Default: PollInterval/2.
	CacheTTL time.Duration

	// ErrorHandler is called when reading or parsing the file fails during
	// a poll. If nil, such errors are silently dropped until the next poll.
	ErrorHandler ErrorHandler

	// Audit receives watch_start and file_changed events. Optional.
	Audit *AuditLogger
}

// WithDefaults applies sensible defaults to the configuration.
func (c *FileSourceConfig) WithDefaults() *FileSourceConfig {
	config := *c

	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.CacheTTL <= 0 || config.CacheTTL > config.PollInterval {
		config.CacheTTL = config.PollInterval / 2
	}

	return &config
}

// sourceStat is the cached stat snapshot used for change detection.
type sourceStat struct {
	modTime  time.Time
	size     int64
	exists   bool
	cachedAt int64 // timecache nano timestamp
}

func (s *sourceStat) expired(ttl time.Duration) bool {
	return timecache.CachedTimeNano()-s.cachedAt > int64(ttl)
}

// FileSource watches one configuration file and implements TokenSource.
// The latest successfully parsed document is available through Snapshot,
// and every detected change rotates the token: a fresh generation is
// installed before the previous one fires.
type FileSource struct {
	path   string
	format DocumentFormat
	config FileSourceConfig

	mu     sync.Mutex
	token  *ManualChangeToken
	latest map[string]interface{}

	lastStat sourceStat

	running   atomic.Bool
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// NewFileSource creates a file source for path. The format is detected from
// the extension (.json, .yaml, .yml); unknown extensions are rejected. If
// the file already exists, the initial document is loaded immediately.
func NewFileSource(path string, config FileSourceConfig) (*FileSource, error) {
	if path == "" {
		return nil, errors.New(ErrCodeInvalidConfig, "file source path cannot be empty")
	}

	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, errors.New(ErrCodeInvalidConfig, "unsupported configuration format").
			WithContext("path", path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeInvalidConfig, "invalid file path").
			WithContext("path", path)
	}

	cfg := config.WithDefaults()
	source := &FileSource{
		path:   absPath,
		format: format,
		config: *cfg,
		token:  NewManualChangeToken(),
	}

	if info, err := os.Stat(absPath); err == nil {
		source.lastStat = sourceStat{
			modTime:  info.ModTime(),
			size:     info.Size(),
			exists:   true,
			cachedAt: timecache.CachedTimeNano(),
		}
		if err := source.loadDocument(); err != nil {
			return nil, err
		}
	}

	return source, nil
}

// Name implements TokenSource.
func (s *FileSource) Name() string { return s.config.InstanceName }

// Token implements TokenSource, returning the current token generation.
func (s *FileSource) Token() ChangeToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Path returns the absolute path being watched.
func (s *FileSource) Path() string { return s.path }

// Snapshot returns a copy of the most recently parsed document, or nil if
// the file has never been readable.
func (s *FileSource) Snapshot() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest == nil {
		return nil
	}
	snapshot := make(map[string]interface{}, len(s.latest))
	for k, v := range s.latest {
		snapshot[k] = v
	}
	return snapshot
}

// Start begins polling the file for changes.
func (s *FileSource) Start() error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New(ErrCodeSourceBusy, "file source is already running")
	}

	s.stopCh = make(chan struct{})
	s.stoppedCh = make(chan struct{})
	s.config.Audit.LogWatch("watch_start", s.path)

	go s.pollLoop()
	return nil
}

// Stop stops polling and waits for the poll loop to exit.
func (s *FileSource) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return errors.New(ErrCodeSourceStopped, "file source is not running")
	}

	close(s.stopCh)
	<-s.stoppedCh
	return nil
}

// IsRunning reports whether the poll loop is active.
func (s *FileSource) IsRunning() bool {
	return s.running.Load()
}

func (s *FileSource) pollLoop() {
	defer close(s.stoppedCh)

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.checkFile()
		}
	}
}

// checkFile compares the current stat against the last observed one and
// fires a token rotation when the file changed.
func (s *FileSource) checkFile() {
	if !s.lastStat.expired(s.config.CacheTTL) {
		return
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			if s.lastStat.exists {
				// Deletion counts as a change: consumers rebuild against
				// whatever defaults their configure functions apply.
				s.lastStat = sourceStat{cachedAt: timecache.CachedTimeNano()}
				s.rotateToken()
			}
			return
		}
		s.reportError(errors.Wrap(err, ErrCodeFileNotFound, "failed to stat watched file").
			WithContext("path", s.path))
		return
	}

	changed := !s.lastStat.exists ||
		!info.ModTime().Equal(s.lastStat.modTime) ||
		info.Size() != s.lastStat.size

	s.lastStat = sourceStat{
		modTime:  info.ModTime(),
		size:     info.Size(),
		exists:   true,
		cachedAt: timecache.CachedTimeNano(),
	}

	if !changed {
		return
	}

	if err := s.loadDocument(); err != nil {
		// Keep the previous document; the change still signals so consumers
		// can decide how to react to a broken file.
		s.reportError(err)
	}
	s.config.Audit.LogWatch("file_changed", s.path)
	s.rotateToken()
}

// loadDocument reads and parses the file, replacing the latest document.
func (s *FileSource) loadDocument() error {
	data, err := os.ReadFile(s.path) // #nosec G304 -- path is the configured watch target
	if err != nil {
		return errors.Wrap(err, ErrCodeFileNotFound, "failed to read watched file").
			WithContext("path", s.path)
	}

	document, err := ParseDocument(data, s.format)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.latest = document
	s.mu.Unlock()
	return nil
}

// rotateToken installs a fresh token generation, then fires the previous
// one, so callbacks that re-register during their own invocation observe
// the new generation.
func (s *FileSource) rotateToken() {
	s.mu.Lock()
	old := s.token
	s.token = NewManualChangeToken()
	s.mu.Unlock()

	old.Notify()
}

func (s *FileSource) reportError(err error) {
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err, s.config.InstanceName)
	}
}

// ConfigureFromFile registers a configure stage for the source's instance
// name that binds the latest document snapshot into the options instance.
// Combined with a Monitor that lists the source, every file change reloads
// the options with freshly bound values:
//
//	proteus.ConfigureFromFile(pipeline, source,
//		func(o *ServerOptions, doc map[string]interface{}) error {
//			return proteus.BindFrom(doc).
//				BindString(&o.Host, "server.host", "localhost").
//				BindInt(&o.Port, "server.port", 8080).
//				Apply()
//		})
//
// A bind error is surfaced through the source's ErrorHandler; the instance
// keeps whatever values earlier stages applied.
func ConfigureFromFile[T any](pipeline *Pipeline[T], source *FileSource, bind func(*T, map[string]interface{}) error) {
	pipeline.Configure(source.Name(), func(options *T) {
		document := source.Snapshot()
		if document == nil {
			return
		}
		if err := bind(options, document); err != nil {
			source.reportError(err)
		}
	})
}
