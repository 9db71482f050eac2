package scan

import (
	"fmt"
	"slices"
	"strings"
)

// Classification is the state of a library in the dependency graph.
type Classification int

const (
	Unclassified Classification = iota
	CandidateLibrary
	UnrelatedLibrary
	ReferenceLibrary
)

func (c Classification) String() string {
	switch c {
	case Unclassified:
		return "Unknown"
	case CandidateLibrary:
		return "Candidate"
	case UnrelatedLibrary:
		return "NotCandidate"
	case ReferenceLibrary:
		return "MapperReference"
	default:
		return fmt.Sprintf("Classification(%d)", int(c))
	}
}

// Library is a node of a dependency graph: a package and the packages it imports.
type Library struct {
	Name         string
	Dependencies []string
}

// DuplicateLibraryError is returned when two libraries differ only by case.
type DuplicateLibraryError struct {
	Name string
}

func (e *DuplicateLibraryError) Error() string {
	return fmt.Sprintf("a duplicate entry for library reference %s was found; check that all imports use the same casing", e.Name)
}

type dependency struct {
	library        Library
	classification Classification
}

// CandidateResolver picks the libraries that may contain profiles or
// capability types: those depending, directly or transitively, on a
// reference library. Library names compare case-insensitively.
type CandidateResolver struct {
	dependencies map[string]*dependency
	references   map[string]struct{}
}

// NewCandidateResolver indexes libs. With no references the mapping engine
// package is the only reference.
func NewCandidateResolver(libs []Library, references ...string) (*CandidateResolver, error) {
	if len(references) == 0 {
		references = []string{MapperPackage}
	}

	refs := make(map[string]struct{}, len(references))
	for _, r := range references {
		refs[strings.ToLower(r)] = struct{}{}
	}

	deps := make(map[string]*dependency, len(libs))

	for _, lib := range libs {
		key := strings.ToLower(lib.Name)
		if _, ok := deps[key]; ok {
			return nil, &DuplicateLibraryError{Name: lib.Name}
		}

		d := &dependency{library: lib}
		if _, ok := refs[key]; ok {
			d.classification = ReferenceLibrary
		}

		deps[key] = d
	}

	return &CandidateResolver{dependencies: deps, references: refs}, nil
}

// Classify returns the classification of the named library. Libraries absent
// from the graph are unrelated unless they are references.
func (r *CandidateResolver) Classify(name string) Classification {
	key := strings.ToLower(name)

	d, ok := r.dependencies[key]
	if !ok {
		if _, ref := r.references[key]; ref {
			return ReferenceLibrary
		}

		return UnrelatedLibrary
	}

	if d.classification != Unclassified {
		return d.classification
	}

	seen := make(map[string]bool)
	if r.reaches(key, seen) {
		d.classification = CandidateLibrary
		return CandidateLibrary
	}

	// Everything reachable from key was walked, and none of it reaches a
	// reference either.
	for k := range seen {
		if dep := r.dependencies[k]; dep.classification == Unclassified {
			dep.classification = UnrelatedLibrary
		}
	}

	return UnrelatedLibrary
}

// reaches reports whether the library at key depends on a reference. A
// library already on the walk answers false, so only definite answers are
// cached.
func (r *CandidateResolver) reaches(key string, seen map[string]bool) bool {
	if seen[key] {
		return false
	}

	seen[key] = true

	for _, name := range r.dependencies[key].library.Dependencies {
		dk := strings.ToLower(name)
		if _, ref := r.references[dk]; ref {
			return true
		}

		d, ok := r.dependencies[dk]
		if !ok {
			continue
		}

		switch d.classification {
		case CandidateLibrary, ReferenceLibrary:
			return true
		case UnrelatedLibrary:
			continue
		}

		if r.reaches(dk, seen) {
			d.classification = CandidateLibrary
			return true
		}
	}

	return false
}

// Candidates returns the names of the candidate libraries, sorted.
func (r *CandidateResolver) Candidates() []string {
	var out []string

	for _, d := range r.dependencies {
		if r.Classify(d.library.Name) == CandidateLibrary {
			out = append(out, d.library.Name)
		}
	}

	slices.Sort(out)

	return out
}
