// Package gen emits the generated half of mapwire: per-package assembly
// catalogs and proxy adapters for mapper interfaces.
//
// Generation uses text/template + go/format, so output is deterministic
// and gofmt-clean. Files:
//   - zz_mapwire_assembly.go registers the package's catalogue types with scan
//   - zz_mapwire_proxies.go implements listed interfaces on *mapper.Mapper
//     and emits their constructors to the proxy module
package gen
