// Package normalize converts TIMEX3 mention text into TimeML calendar
// values, resolving relative expressions against the document anchor date.
package normalize

// Kind classifies a normalized value.
type Kind string

const (
	// KindDate covers calendar dates at any granularity: day, ISO week,
	// month, quarter, season, year, decade, and the *_REF values.
	KindDate Kind = "DATE"

	// KindTime is a date with a time-of-day part.
	KindTime Kind = "TIME"

	// KindDuration is an ISO-8601 period code (P3D, PT2H).
	KindDuration Kind = "DURATION"

	// KindSet is a recurring expression (every Monday, daily).
	KindSet Kind = "SET"

	// KindUnresolved means no value could be computed. This is a valid
	// terminal value, not an error: consumers must be able to tell "nothing
	// could be computed" apart from TimeML's underspecified values
	// (PAST_REF, XXXX-XX-XX, ...), which mean "present but unknown".
	KindUnresolved Kind = "UNRESOLVED"
)

// Value is a normalized TIMEX3 value.
type Value struct {
	Kind Kind
	// Text is the TimeML value string, e.g. "2012-06-01", "P3D",
	// "XXXX-WXX-1". Empty when Kind is KindUnresolved.
	Text string
}

// Unresolved is the explicit marker for expressions that could not be
// normalized. Never a fabricated best guess.
var Unresolved = Value{Kind: KindUnresolved}

// IsUnresolved reports whether the value carries no computed text.
func (v Value) IsUnresolved() bool { return v.Kind == KindUnresolved }

func date(text string) Value     { return Value{Kind: KindDate, Text: text} }
func clock(text string) Value    { return Value{Kind: KindTime, Text: text} }
func duration(text string) Value { return Value{Kind: KindDuration, Text: text} }
func set(text string) Value      { return Value{Kind: KindSet, Text: text} }
