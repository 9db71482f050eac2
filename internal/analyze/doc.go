// Package analyze loads Go packages with golang.org/x/tools/go/packages and
// extracts what the generator emits for them.
//
// Key types:
//   - Package: a loaded package, its catalogue types and its interfaces
//   - Interface: a named interface with its methods as proxy signatures
//   - Result: the loaded packages plus the import graph as scan libraries
package analyze
