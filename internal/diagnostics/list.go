package diagnostics

import (
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// List batches diagnostics from independent units. It is safe for concurrent use.
type List struct {
	mu    sync.Mutex
	items []*DiagnosticError
	seen  map[string]bool
}

func NewList() *List {
	return &List{seen: make(map[string]bool)}
}

// Add records d unless an identical diagnostic was already recorded.
func (l *List) Add(d ...*DiagnosticError) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, item := range d {
		if item == nil {
			continue
		}
		key := item.Error()
		if l.seen[key] {
			continue
		}
		l.seen[key] = true
		l.items = append(l.items, item)
	}
}

// Items returns the diagnostics ordered by file, line, column and code.
func (l *List) Items() []*DiagnosticError {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*DiagnosticError, len(l.items))
	copy(out, l.items)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Token.Line != b.Token.Line {
			return a.Token.Line < b.Token.Line
		}
		if a.Token.Column != b.Token.Column {
			return a.Token.Column < b.Token.Column
		}
		return a.Code < b.Code
	})
	return out
}

func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// HasErrors reports whether any diagnostic has error severity.
func (l *List) HasErrors() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, d := range l.items {
		if !d.IsWarning() {
			return true
		}
	}
	return false
}

// WithCode returns the recorded diagnostics carrying code.
func (l *List) WithCode(code Code) []*DiagnosticError {
	var out []*DiagnosticError
	for _, d := range l.Items() {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// Err combines every error-severity diagnostic, or returns nil.
func (l *List) Err() error {
	var result *multierror.Error
	for _, d := range l.Items() {
		if d.IsWarning() {
			continue
		}
		result = multierror.Append(result, d)
	}
	return result.ErrorOrNil()
}
