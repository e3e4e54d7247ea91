package pressure

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// DefaultCgroupEvents is memory.events of the process's cgroup on a typical
// cgroup v2 host with a private namespace (containers).
const DefaultCgroupEvents = "/sys/fs/cgroup/memory.events"

// counters tracked from memory.events; any increase is treated as pressure.
var pressureFields = [...]string{"high", "max", "oom"}

// CgroupWatcher emits on its Signal whenever the cgroup v2 "high", "max" or
// "oom" counters in memory.events go up. The kernel raises a file-modified
// event on every change, so no polling is involved.
type CgroupWatcher struct {
	Signal

	path    string
	w       *fsnotify.Watcher
	onError func(error)

	mu   sync.Mutex
	last map[string]uint64

	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// WatchCgroup starts watching path (usually DefaultCgroupEvents). onError,
// if non-nil, receives read and watcher errors; it is called from the
// watcher goroutine.
func WatchCgroup(path string, onError func(error)) (*CgroupWatcher, error) {
	cw := &CgroupWatcher{path: path, onError: onError}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pressure: read %s: %w", path, err)
	}
	cw.last = parseEvents(b)
	if len(cw.last) == 0 {
		return nil, fmt.Errorf("pressure: %s has no memory event counters", path)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("pressure: new watcher: %w", err)
	}
	if err := w.Add(path); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("pressure: watch %s: %w", path, err)
	}
	cw.w = w

	cw.wg.Add(1)
	go cw.loop()
	return cw, nil
}

func (cw *CgroupWatcher) loop() {
	defer cw.wg.Done()
	for {
		select {
		case ev, ok := <-cw.w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if cw.refresh() {
				cw.Emit()
			}
		case err, ok := <-cw.w.Errors:
			if !ok {
				return
			}
			cw.report(err)
		}
	}
}

// refresh re-reads the counters and reports whether any pressure counter
// increased. Partial reads (no known fields) keep the previous baseline.
func (cw *CgroupWatcher) refresh() bool {
	b, err := os.ReadFile(cw.path)
	if err != nil {
		cw.report(err)
		return false
	}
	cur := parseEvents(b)
	if len(cur) == 0 {
		return false
	}

	cw.mu.Lock()
	defer cw.mu.Unlock()
	raised := false
	for _, f := range pressureFields {
		if cur[f] > cw.last[f] {
			raised = true
		}
	}
	cw.last = cur
	return raised
}

func (cw *CgroupWatcher) report(err error) {
	if cw.onError != nil && err != nil {
		cw.onError(err)
	}
}

// Close stops watching. Subscribers are kept but never notified again.
func (cw *CgroupWatcher) Close() error {
	cw.closeOnce.Do(func() {
		cw.closeErr = cw.w.Close()
		cw.wg.Wait()
	})
	return cw.closeErr
}

var errMalformed = errors.New("malformed line")

// parseEvents reads "name value" lines; unknown or malformed lines are skipped.
func parseEvents(b []byte) map[string]uint64 {
	out := make(map[string]uint64, 5)
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		name, v, err := parseLine(sc.Bytes())
		if err != nil {
			continue
		}
		out[name] = v
	}
	return out
}

func parseLine(line []byte) (string, uint64, error) {
	fields := bytes.Fields(line)
	if len(fields) != 2 {
		return "", 0, errMalformed
	}
	v, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return "", 0, err
	}
	return string(fields[0]), v, nil
}
