// Package mapper is the object-mapping engine the registration layer configures.
//
// A Profile declares type maps with CreateMap. Profiles are folded into an
// immutable Configuration by NewConfiguration, and a Configuration hands out
// Mappers bound to a ServiceCtor, which resolves resolver and converter types
// at mapping time (usually from a DI scope).
//
// Destination members are bound by convention (normalized name of a source
// field or zero-argument method) unless configured with ForMember.
// Configuration problems are reported by AssertConfigurationIsValid, never at
// build time.
//
// Capability interfaces:
//   - ValueResolver[S, D, M]: computes one destination member
//   - MemberValueResolver[S, D, SM, DM]: computes one destination member from a source member
//   - TypeConverter[S, D]: replaces the whole member-by-member mapping
//   - ValueConverter[SM, DM]: converts one source member value
//   - MappingAction[S, D]: runs after (or before) a mapping
//
// Mapping entry points mirror the five mapper call shapes:
//   - Map[D](m, source)
//   - MapTo[S, D](m, source)
//   - MapInto[S, D](m, source, destination)
//   - m.MapType(source, sourceType, destinationType)
//   - m.MapTypeInto(source, destination, sourceType, destinationType)
package mapper
