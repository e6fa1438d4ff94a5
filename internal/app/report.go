package app

import (
	"encoding/json"
	"io"

	"github.com/specialistvlad/tmplresolve/internal/diagnostics"
	"github.com/specialistvlad/tmplresolve/internal/rewriter"
)

// Report is the JSON document a run writes.
type Report struct {
	RunID   string        `json:"run_id"`
	Mode    string        `json:"mode"`
	Files   []*FileReport `json:"files"`
	Summary Summary       `json:"summary"`
}

// Summary totals a run.
type Summary struct {
	Files       int `json:"files"`
	Rewrites    int `json:"rewrites"`
	Diagnostics int `json:"diagnostics"`
	Failed      int `json:"failed"`
}

// FileReport is the outcome of resolving one template.
type FileReport struct {
	File        string                   `json:"file"`
	Imports     []rewriter.Import        `json:"imports,omitempty"`
	Rewrites    int                      `json:"rewrites"`
	Template    string                   `json:"template,omitempty"`
	Diagnostics []diagnostics.Diagnostic `json:"diagnostics,omitempty"`
	Error       string                   `json:"error,omitempty"`

	// failure is the resolver error behind Error, if that is what failed.
	failure *diagnostics.ResolverError
}

// Failed reports whether the file could not be resolved.
func (f *FileReport) Failed() bool {
	return f.Error != ""
}

// ambiguous returns the names of ambiguous references recorded for f.
func (f *FileReport) ambiguous() []string {
	var names []string
	for _, d := range f.Diagnostics {
		if d.Kind.IsAmbiguity() && d.Name != "" {
			names = append(names, d.Name)
		}
	}
	if f.failure != nil && f.failure.Kind.IsAmbiguity() && f.failure.Name != "" {
		names = append(names, f.failure.Name)
	}
	return names
}

func (r *Report) summarize() {
	r.Summary = Summary{Files: len(r.Files)}
	for _, f := range r.Files {
		r.Summary.Rewrites += f.Rewrites
		r.Summary.Diagnostics += len(f.Diagnostics)
		if f.Failed() {
			r.Summary.Failed++
		}
	}
}

func (r *Report) write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}
