// Package match provides member-name matching for the mapping engine.
//
// Key capabilities:
//   - Identifier normalization (case folding, separator stripping, CamelCase tokens)
//   - Edit distance and similarity scores used to suggest near-miss member names
//   - Reflect-based compatibility levels between source and destination member types
package match
