package diagnostic

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Codes used across the module.
const (
	// Mapper configuration validation.
	CodeUnmappedMember   = "unmapped_member"
	CodeUnknownMember    = "unknown_member"
	CodeDuplicateTypeMap = "duplicate_type_map"
	CodeInvalidMember    = "invalid_member"

	// mapwire.yaml validation.
	CodeConfigIsNil        = "config_is_nil"
	CodeUnsupportedVersion = "unsupported_version"
	CodeInvalidLifetime    = "invalid_lifetime"
	CodeFileClash          = "file_clash"
	CodeInvalidFileName    = "invalid_file_name"
	CodeInvalidProxy       = "invalid_proxy"
	CodeDuplicateProxy     = "duplicate_proxy"

	// Generated files.
	CodeStaleFile = "stale_file"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is a single finding.
type Diagnostic struct {
	Severity Severity
	// Code identifies the kind of finding.
	Code    string
	Message string
	// Subject is what the finding is about: a type pair "S -> D", a package, a file.
	Subject string
	// Member is the destination member or interface method, if any.
	Member      string
	Suggestions []string
}

// String formats the diagnostic as "[subject] member: [code] message (did you mean ...?)".
func (d Diagnostic) String() string {
	var prefix []string
	if d.Subject != "" {
		prefix = append(prefix, "["+d.Subject+"]")
	}

	if d.Member != "" {
		prefix = append(prefix, d.Member)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(d.Suggestions, ", "))
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}

// Diagnostics collects findings by severity.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

func (d *Diagnostics) add(s Severity, code, message, subject, member string, suggestions []string) {
	entry := Diagnostic{
		Severity:    s,
		Code:        code,
		Message:     message,
		Subject:     subject,
		Member:      member,
		Suggestions: suggestions,
	}

	switch s {
	case SeverityError:
		d.Errors = append(d.Errors, entry)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, entry)
	default:
		d.Infos = append(d.Infos, entry)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, subject, member string, suggestions ...string) {
	d.add(SeverityError, code, message, subject, member, suggestions)
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, subject, member string) {
	d.add(SeverityWarning, code, message, subject, member, nil)
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, subject, member string) {
	d.add(SeverityInfo, code, message, subject, member, nil)
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// Sort orders every severity bucket by subject, then member, then code.
func (d *Diagnostics) Sort() {
	for _, list := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		sort.SliceStable(list, func(i, j int) bool {
			a, b := list[i], list[j]
			if a.Subject != b.Subject {
				return a.Subject < b.Subject
			}

			if a.Member != b.Member {
				return a.Member < b.Member
			}

			return a.Code < b.Code
		})
	}
}

// Err returns a combined error from all error diagnostics, or nil if there are none.
func (d *Diagnostics) Err() error {
	if !d.HasErrors() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}
