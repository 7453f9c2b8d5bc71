// Package scanner walks a namespace tree and flattens it into the set of
// fully-qualified type names found below a root.
package scanner

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Source exposes one level of a namespace tree. List returns the immediate
// sub-namespaces (fully-qualified) and the fully-qualified type names declared
// directly in ns. ok is false when ns cannot be resolved.
type Source interface {
	List(ns string) (namespaces []string, types []string, ok bool)
}

var ErrNamespaceNotFound = errors.New("namespace not found")

// NamespaceNotFoundError indicates a namespace could not be resolved.
type NamespaceNotFoundError struct {
	Namespace string
}

func (e NamespaceNotFoundError) Error() string {
	return fmt.Sprintf("namespace not found: %q", e.Namespace)
}

func (e NamespaceNotFoundError) Unwrap() error {
	return ErrNamespaceNotFound
}

// Result is the outcome of one scan.
type Result struct {
	// Types is the set of type names found, sorted for stable output.
	Types []string

	// Missing lists branches that could not be resolved while walking.
	Missing []NamespaceNotFoundError
}

// Scanner walks a Source recursively.
type Scanner struct {
	source Source
}

// New creates a Scanner over source.
func New(source Source) *Scanner {
	return &Scanner{source: source}
}

// Scan returns every type name reachable from root at any depth. An error is
// returned only when root itself cannot be resolved; unresolvable sub-branches
// are reported in Result.Missing and do not affect the rest of the walk.
func (s *Scanner) Scan(root string) (*Result, error) {
	root = Normalize(root)

	if _, _, ok := s.source.List(root); !ok {
		return nil, NamespaceNotFoundError{Namespace: root}
	}

	seen := make(map[string]struct{})
	visited := make(map[string]struct{})
	result := &Result{}

	s.walk(root, seen, visited, result)

	result.Types = make([]string, 0, len(seen))
	for name := range seen {
		result.Types = append(result.Types, name)
	}
	sort.Strings(result.Types)

	return result, nil
}

func (s *Scanner) walk(ns string, seen, visited map[string]struct{}, result *Result) {
	if _, ok := visited[ns]; ok {
		return
	}
	visited[ns] = struct{}{}

	namespaces, types, ok := s.source.List(ns)
	if !ok {
		result.Missing = append(result.Missing, NamespaceNotFoundError{Namespace: ns})
		return
	}

	for _, name := range types {
		seen[name] = struct{}{}
	}

	for _, sub := range namespaces {
		s.walk(sub, seen, visited, result)
	}
}

// Normalize trims surrounding whitespace and slashes from a namespace.
func Normalize(ns string) string {
	return strings.Trim(strings.TrimSpace(ns), "/")
}

// Join appends a child segment to a namespace.
func Join(ns, child string) string {
	if ns == "" {
		return child
	}
	return ns + "/" + child
}

// Split breaks a namespace into its segments.
func Split(ns string) []string {
	ns = Normalize(ns)
	if ns == "" {
		return nil
	}
	return strings.Split(ns, "/")
}
