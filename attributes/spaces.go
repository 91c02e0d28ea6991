// Package attributes predicts the TimeML attribute set of each resolved
// mention from a single merged sample per span.
package attributes

import "github.com/teranos/tempex/document"

// Space is the closed label space of one attribute.
type Space struct {
	Name string
	// Values in stable order; prediction ties resolve toward earlier values.
	Values []string
	// Default is assigned when no trained weight prefers anything else.
	Default string
}

// EventSpaces are the EVENT attribute spaces, per the TimeML scheme.
func EventSpaces() []Space {
	return []Space{
		{
			Name:    document.AttrClass,
			Values:  []string{"OCCURRENCE", "STATE", "REPORTING", "I_ACTION", "I_STATE", "ASPECTUAL", "PERCEPTION"},
			Default: "OCCURRENCE",
		},
		{
			Name:    document.AttrTense,
			Values:  []string{"NONE", "PAST", "PRESENT", "FUTURE", "INFINITIVE", "PRESPART", "PASTPART"},
			Default: "NONE",
		},
		{
			Name:    document.AttrAspect,
			Values:  []string{"NONE", "PROGRESSIVE", "PERFECTIVE", "PERFECTIVE_PROGRESSIVE"},
			Default: "NONE",
		},
		{
			Name:    document.AttrPolarity,
			Values:  []string{"POS", "NEG"},
			Default: "POS",
		},
		{
			Name:    document.AttrModality,
			Values:  []string{"NONE", "WILL", "WOULD", "CAN", "COULD", "MAY", "MIGHT", "SHALL", "SHOULD", "MUST"},
			Default: "NONE",
		},
	}
}

// TimexSpaces are the TIMEX3 attribute spaces. The normalized value is not
// an attribute here: value resolution needs calendar arithmetic, not a
// closed label space, and belongs to the normalizer.
func TimexSpaces() []Space {
	return []Space{
		{
			Name:    document.AttrType,
			Values:  []string{"DATE", "TIME", "DURATION", "SET"},
			Default: "DATE",
		},
		{
			Name:    document.AttrMod,
			Values:  []string{"NONE", "BEFORE", "AFTER", "ON_OR_BEFORE", "ON_OR_AFTER", "LESS_THAN", "MORE_THAN", "EQUAL_OR_LESS", "EQUAL_OR_MORE", "START", "MID", "END", "APPROX"},
			Default: "NONE",
		},
		{
			Name:    document.AttrQuant,
			Values:  []string{"NONE", "EVERY", "EACH", "SOME"},
			Default: "NONE",
		},
		{
			Name:    document.AttrFunction,
			Values:  []string{"NONE", "CREATION_TIME", "PUBLICATION_TIME", "RELEASE_TIME", "EXPIRATION_TIME", "MODIFICATION_TIME"},
			Default: "NONE",
		},
	}
}

// SpacesFor returns the attribute spaces of a mention type.
func SpacesFor(t document.MentionType) []Space {
	if t == document.MentionEvent {
		return EventSpaces()
	}
	return TimexSpaces()
}
