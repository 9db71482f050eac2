// Package diagnostic provides structured errors, warnings, and notes
// collected while validating a mapper configuration or generating sources.
//
// Key capabilities:
//   - Unmapped destination member reports with near-miss suggestions
//   - Duplicate type map reports
//   - Generator findings (skipped packages, stale files)
package diagnostic
