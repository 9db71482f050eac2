// Package scan finds mapping profiles and resolver, converter and action
// types among catalogued assemblies.
//
// An assembly is a Go package whose defined types were written into the
// process catalog by generated code (see the mapwire gen command). Scan
// classifies those types structurally: a type is a candidate when its method
// set carries the method of one of the mapper capability interfaces for some
// choice of type arguments.
package scan
