// Package proxy describes caller-declared mapper interfaces and hands out
// adapters implementing them.
//
// An interface qualifies when each of its methods has one of five mapper
// call shapes (see Pattern) and no shape appears twice. Adapters are
// generated ahead of time by mapwire gen and register themselves with Emit
// from init; Build validates an interface, finds its adapter and caches the
// result for the life of the process.
package proxy
