package diagnostics

import (
	"slices"
	"sync"
)

// Collector accumulates audit-mode diagnostics from any number of
// concurrently resolved files.
type Collector struct {
	mu     sync.Mutex
	byFile map[string][]Diagnostic
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{byFile: make(map[string][]Diagnostic)}
}

// Add records d under its filename, preserving emission order per file.
func (c *Collector) Add(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.byFile == nil {
		c.byFile = make(map[string][]Diagnostic)
	}
	c.byFile[d.Filename] = append(c.byFile[d.Filename], d)
}

// ByFile returns a copy of the diagnostics recorded for filename.
func (c *Collector) ByFile(filename string) []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.byFile[filename])
}

// Files returns the names of files with at least one diagnostic, sorted.
func (c *Collector) Files() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	files := make([]string, 0, len(c.byFile))
	for f := range c.byFile {
		files = append(files, f)
	}
	slices.Sort(files)
	return files
}

// Len reports the total number of diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, ds := range c.byFile {
		n += len(ds)
	}
	return n
}
