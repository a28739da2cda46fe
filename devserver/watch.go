package devserver

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gekko3d/glint"
)

const watchDebounce = 300 * time.Millisecond

// moduleRoot walks up from dir to the directory holding go.mod and
// returns it, or dir itself when no module is found. The app package
// compiles framework code from the whole module, so the watch has to
// cover all of it.
func moduleRoot(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}

	for d := abs; ; {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
			return d
		}
		parent := filepath.Dir(d)
		if parent == d {
			return abs
		}
		d = parent
	}
}

// sourceWatcher watches a source tree recursively and reports change
// bursts as single debounced events.
type sourceWatcher struct {
	watcher *fsnotify.Watcher
	log     glint.Logger
	changes chan string
	done    chan struct{}
}

func newSourceWatcher(root string, log glint.Logger) (*sourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if skipDir(info.Name()) && path != root {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
	if err != nil {
		watcher.Close()
		return nil, err
	}

	sw := &sourceWatcher{
		watcher: watcher,
		log:     log,
		changes: make(chan string, 1),
		done:    make(chan struct{}),
	}
	go sw.loop()

	log.Infof("Watching %s for changes", root)
	return sw, nil
}

func (sw *sourceWatcher) Changes() <-chan string { return sw.changes }

func (sw *sourceWatcher) Close() error {
	close(sw.done)
	return sw.watcher.Close()
}

func (sw *sourceWatcher) loop() {
	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}
	var lastFile string

	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !shouldProcessEvent(event) {
				continue
			}
			sw.log.Debugf("File change: %s (%s)", event.Name, event.Op)
			lastFile = filepath.Base(event.Name)
			debounce.Reset(watchDebounce)

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.log.Errorf("Watcher error: %v", err)

		case <-debounce.C:
			select {
			case sw.changes <- lastFile:
			default:
			}

		case <-sw.done:
			return
		}
	}
}

func shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return watchedFile(event.Name)
}

func watchedFile(name string) bool {
	switch filepath.Ext(name) {
	case ".go", ".wgsl", ".glsl", ".html":
		return true
	}
	return false
}

func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch name {
	case "vendor", "node_modules", "dist":
		return true
	}
	return false
}
