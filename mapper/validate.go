package mapper

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"mapwire/internal/diagnostic"
	"mapwire/internal/match"
)

const maxSuggestions = 3

// AssertConfigurationIsValid checks that every destination member of every
// type map is mapped, configured or ignored, and that no type pair is
// declared twice. It returns a *ConfigurationError listing every problem.
func (c *Configuration) AssertConfigurationIsValid() error {
	var d diagnostic.Diagnostics

	for _, dup := range c.duplicates {
		d.AddError(diagnostic.CodeDuplicateTypeMap,
			fmt.Sprintf("type map declared in profile %s and again in profile %s", dup.first, dup.second),
			dup.pair.String(), "")
	}

	for _, tm := range c.list {
		c.validateTypeMap(tm, &d)
	}

	if !d.HasErrors() {
		return nil
	}

	d.Sort()
	c.logger.Debug("mapper configuration invalid", zap.Int("errors", len(d.Errors)))

	return &ConfigurationError{Diagnostics: d}
}

func (c *Configuration) validateTypeMap(tm *TypeMap, d *diagnostic.Diagnostics) {
	if tm.converter != nil {
		return
	}

	subject := tm.pair.String()

	if indirectType(tm.pair.destination).Kind() != reflect.Struct {
		if !c.reachableWithoutMap(tm) {
			d.AddError(diagnostic.CodeInvalidMember,
				"destination is not a struct; configure a type converter", subject, "")
		}

		return
	}

	for _, name := range tm.unknownMembers {
		d.AddError(diagnostic.CodeUnknownMember, "configured member does not exist on the destination",
			subject, name, match.Suggest(name, tm.destinationNames(), maxSuggestions, match.DefaultSuggestThreshold)...)
	}

	for _, b := range tm.bindings {
		switch {
		case b.member != nil:
		case b.source == nil:
			d.AddError(diagnostic.CodeUnmappedMember, "destination member is not mapped",
				subject, b.name,
				match.Suggest(b.name, sourceMemberNames(tm.pair.source), maxSuggestions, match.DefaultSuggestThreshold)...)
		case !c.reachable(b.source.typ, b.typ, 0):
			d.AddError(diagnostic.CodeInvalidMember,
				fmt.Sprintf("source member %s (%s) cannot be mapped to %s", b.source.name, b.source.typ, b.typ),
				subject, b.name)
		}
	}
}

// reachableWithoutMap handles maps declared between non-struct types, which
// are only valid when a built-in conversion exists anyway.
func (c *Configuration) reachableWithoutMap(tm *TypeMap) bool {
	return match.Compare(tm.pair.source, tm.pair.destination).Copyable()
}
