package server

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"skillfit/internal/errors"
)

// RulesWatcher watches the matcher rules file for changes and triggers reloads
type RulesWatcher struct {
	mu sync.RWMutex

	// File path to watch
	rulesFile string

	// File metadata
	lastModTime time.Time

	// Watcher components
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	// Control channels
	stopChan   chan struct{}
	reloadChan chan struct{}

	// Callback and logging
	reloadCallback func()
	logger         *errors.Logger

	// State
	running bool
}

// NewRulesWatcher creates a new rules file watcher
func NewRulesWatcher(rulesFile string, debounceDelay time.Duration, reloadCallback func(), logger *errors.Logger) (*RulesWatcher, error) {
	if rulesFile == "" {
		return nil, fmt.Errorf("rules file path is required")
	}
	if debounceDelay == 0 {
		debounceDelay = time.Second // Default 1 second debounce
	}

	return &RulesWatcher{
		rulesFile:      rulesFile,
		debounceDelay:  debounceDelay,
		stopChan:       make(chan struct{}),
		reloadChan:     make(chan struct{}, 1), // Buffered to prevent blocking
		reloadCallback: reloadCallback,
		logger:         logger,
	}, nil
}

// Start begins watching the rules file for changes
func (rw *RulesWatcher) Start() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.running {
		return fmt.Errorf("rules watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	rw.fsWatcher = watcher

	if stat, err := os.Stat(rw.rulesFile); err == nil {
		rw.lastModTime = stat.ModTime()
	} else if !os.IsNotExist(err) {
		rw.cleanupWatcher()
		return fmt.Errorf("failed to stat rules file %s: %w", rw.rulesFile, err)
	}

	if err := rw.addFileToWatcher(); err != nil {
		rw.cleanupWatcher()
		return err
	}

	rw.running = true
	go rw.watchLoop()

	if rw.logger != nil {
		rw.logger.Info("Rules file watcher started",
			"file", rw.rulesFile,
			"debounce_delay", rw.debounceDelay)
	}
	return nil
}

// cleanupWatcher closes the file watcher and logs any errors
func (rw *RulesWatcher) cleanupWatcher() {
	if rw.fsWatcher != nil {
		if closeErr := rw.fsWatcher.Close(); closeErr != nil && rw.logger != nil {
			rw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
	}
}

// Stop stops the rules file watcher
func (rw *RulesWatcher) Stop() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if !rw.running {
		return nil
	}

	// Signal stop
	close(rw.stopChan)

	// Stop debounce timer if running
	if rw.debounceTimer != nil {
		rw.debounceTimer.Stop()
	}

	// Close file system watcher
	if rw.fsWatcher != nil {
		if err := rw.fsWatcher.Close(); err != nil {
			if rw.logger != nil {
				rw.logger.LogError(err, "Failed to close file system watcher")
			}
			return err
		}
	}

	rw.running = false

	if rw.logger != nil {
		rw.logger.Info("Rules file watcher stopped")
	}

	return nil
}

// addFileToWatcher adds the rules file and its directory to the file system watcher
func (rw *RulesWatcher) addFileToWatcher() error {
	// Watch the file itself
	if err := rw.fsWatcher.Add(rw.rulesFile); err != nil {
		// If the file doesn't exist yet, watch its directory instead
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to watch file %s: %w", rw.rulesFile, err)
		}
	}

	// Also watch the directory to catch atomic writes (rename operations)
	dir := filepath.Dir(rw.rulesFile)
	if err := rw.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	return nil
}

// hasFileChanged checks if the rules file has been modified since last check
func (rw *RulesWatcher) hasFileChanged() bool {
	stat, err := os.Stat(rw.rulesFile)
	if err != nil {
		return false
	}

	if rw.lastModTime.IsZero() || stat.ModTime().After(rw.lastModTime) {
		rw.lastModTime = stat.ModTime()
		return true
	}

	return false
}

// watchLoop is the main event loop for file watching
func (rw *RulesWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-rw.fsWatcher.Events:
			if !ok {
				return
			}

			if rw.shouldProcessEvent(event) {
				rw.scheduleReload()
			}

		case err, ok := <-rw.fsWatcher.Errors:
			if !ok {
				return
			}
			if rw.logger != nil {
				rw.logger.LogError(err, "File watcher error")
			}

		case <-rw.reloadChan:
			// Debounced reload trigger
			if rw.hasFileChanged() {
				if rw.logger != nil {
					rw.logger.Info("Rules file changed, triggering reload")
				}
				rw.reloadCallback()
			}

		case <-rw.stopChan:
			return
		}
	}
}

// shouldProcessEvent determines if a file system event should trigger a reload check
func (rw *RulesWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Name != rw.rulesFile && filepath.Base(event.Name) != filepath.Base(rw.rulesFile) {
		return false
	}

	// Process write, create, and rename events
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// scheduleReload schedules a debounced reload
func (rw *RulesWatcher) scheduleReload() {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	// Reset the debounce timer
	if rw.debounceTimer != nil {
		rw.debounceTimer.Stop()
	}

	rw.debounceTimer = time.AfterFunc(rw.debounceDelay, func() {
		select {
		case rw.reloadChan <- struct{}{}:
			// Reload scheduled
		default:
			// Channel is full, reload already scheduled
		}
	})
}

// IsRunning returns whether the watcher is currently running
func (rw *RulesWatcher) IsRunning() bool {
	rw.mu.RLock()
	defer rw.mu.RUnlock()
	return rw.running
}
