// Package output provides formatters for presenting folder-snap operation
// results in various formats (pretty, plain, json).
//
// The package uses a registry pattern so formatter implementations can be
// selected at runtime:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, report); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/HaiderNakara/folder-snap/pkg/snap/archive"
	"github.com/HaiderNakara/folder-snap/pkg/snap/types"
)

// Report is the unified operation outcome handed to formatters. Exactly
// one of Archive, Stats, or Validation is set, matching Operation.
type Report struct {
	// Operation names the command that produced this report
	// (pack, unpack, stats, validate, upgrade).
	Operation string `json:"operation"`

	// Source is the folder or archive the operation read.
	Source string `json:"source"`

	// Target is where output went, for operations that wrote any.
	Target string `json:"target,omitempty"`

	// Archive holds the outcome of pack, unpack, and upgrade.
	Archive *types.Result `json:"archive,omitempty"`

	// Stats holds the outcome of stats.
	Stats *types.Stats `json:"stats,omitempty"`

	// Validation holds the outcome of validate.
	Validation *archive.Report `json:"validation,omitempty"`

	// ArchiveBytes is the on-disk size of the written archive file,
	// when one was written.
	ArchiveBytes int64 `json:"archiveBytes,omitempty"`

	// Elapsed is how long the operation took.
	Elapsed time.Duration `json:"elapsed,omitempty"`
}

// Warnings returns the operation's warning tally, whatever section carries
// it.
func (r *Report) Warnings() int {
	if r.Archive != nil {
		return r.Archive.Warnings
	}
	return 0
}

// Formatter is the interface that all output formatters implement.
type Formatter interface {
	// Format writes the formatted report to the buffer.
	Format(w *bytes.Buffer, r *Report) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry, replacing any
// existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
