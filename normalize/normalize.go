package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Normalize resolves a temporal expression against the document anchor date.
// Absolute expressions resolve directly; relative ones use calendar
// arithmetic from the anchor — never from the wall clock. Unparseable text
// yields Unresolved.
func Normalize(text string, anchor time.Time) Value {
	t := clean(text)
	if t == "" {
		return Unresolved
	}

	for _, resolve := range []func(string, time.Time) (Value, bool){
		referenceWord,
		setExpression,
		dayWord,
		lastNextThis,
		offsetExpression,
		durationExpression,
		clockTime,
		absolute,
	} {
		if v, ok := resolve(t, anchor); ok {
			return v
		}
	}
	return Unresolved
}

// clean lowercases, trims, collapses whitespace and strips leading
// function words that never change the value.
func clean(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.Join(strings.Fields(t), " ")
	for _, prefix := range []string{"on ", "in ", "at ", "of ", "the "} {
		t = strings.TrimPrefix(t, prefix)
	}
	if rest, ok := strings.CutPrefix(t, "this coming "); ok {
		t = "next " + rest
	}
	return t
}

// Formatting helpers at the granularities TimeML distinguishes.

func fmtDay(d time.Time) string   { return d.Format("2006-01-02") }
func fmtMonth(d time.Time) string { return d.Format("2006-01") }
func fmtYear(d time.Time) string  { return d.Format("2006") }

func fmtWeek(d time.Time) string {
	y, w := d.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}

// referenceWord handles the vague anchors TimeML encodes as *_REF values:
// present but deliberately underspecified, which is different from
// Unresolved.
func referenceWord(t string, _ time.Time) (Value, bool) {
	switch t {
	case "now", "currently", "current", "present", "moment":
		return date("PRESENT_REF"), true
	case "recently", "recent", "lately", "past", "previously", "earlier", "formerly":
		return date("PAST_REF"), true
	case "soon", "future", "later", "eventually", "shortly":
		return date("FUTURE_REF"), true
	}
	return Value{}, false
}

// setExpression handles recurring expressions.
func setExpression(t string, _ time.Time) (Value, bool) {
	switch t {
	case "daily", "every day", "each day":
		return set("P1D"), true
	case "weekly", "every week", "each week":
		return set("P1W"), true
	case "monthly", "every month", "each month":
		return set("P1M"), true
	case "yearly", "annually", "every year", "each year", "annual":
		return set("P1Y"), true
	case "hourly", "every hour", "each hour":
		return set("PT1H"), true
	case "nightly", "every night":
		return set("XXXX-XX-XXTNI"), true
	case "every morning":
		return set("XXXX-XX-XXTMO"), true
	}
	for _, quant := range []string{"every ", "each "} {
		if rest, ok := strings.CutPrefix(t, quant); ok {
			if wd, ok := weekdays[rest]; ok {
				return set(fmt.Sprintf("XXXX-WXX-%d", isoWeekday(wd))), true
			}
			if _, ok := months[rest]; ok {
				return set(fmt.Sprintf("XXXX-%02d", months[rest])), true
			}
		}
	}
	return Value{}, false
}

// dayWord resolves single-word day expressions and day periods.
func dayWord(t string, anchor time.Time) (Value, bool) {
	switch t {
	case "today":
		return date(fmtDay(anchor)), true
	case "yesterday":
		return date(fmtDay(anchor.AddDate(0, 0, -1))), true
	case "tomorrow":
		return date(fmtDay(anchor.AddDate(0, 0, 1))), true
	case "tonight":
		return clock(fmtDay(anchor) + "TNI"), true
	case "this morning", "morning":
		return clock(fmtDay(anchor) + "TMO"), true
	case "this afternoon", "afternoon":
		return clock(fmtDay(anchor) + "TAF"), true
	case "this evening", "evening":
		return clock(fmtDay(anchor) + "TEV"), true
	case "overnight", "night", "last night":
		if t == "last night" {
			return clock(fmtDay(anchor.AddDate(0, 0, -1)) + "TNI"), true
		}
		return clock(fmtDay(anchor) + "TNI"), true
	}
	return Value{}, false
}

// lastNextThis resolves "<last|next|this> <unit|weekday|season|month>".
func lastNextThis(t string, anchor time.Time) (Value, bool) {
	fields := strings.Fields(t)
	direction := 0
	switch {
	case len(fields) == 2 && fields[0] == "last":
		direction = -1
	case len(fields) == 2 && fields[0] == "next":
		direction = 1
	case len(fields) == 2 && fields[0] == "this":
		direction = 0
	case len(fields) == 1:
		// Bare weekday, season or month name.
		return bareName(fields[0], anchor)
	default:
		return Value{}, false
	}

	word := fields[1]
	switch word {
	case "week":
		return date(fmtWeek(anchor.AddDate(0, 0, 7*direction))), true
	case "weekend":
		return date(fmtWeek(anchor.AddDate(0, 0, 7*direction)) + "-WE"), true
	case "month":
		return date(fmtMonth(anchor.AddDate(0, direction, 0))), true
	case "year":
		return date(fmtYear(anchor.AddDate(direction, 0, 0))), true
	case "decade":
		return date(fmtYear(anchor.AddDate(10*direction, 0, 0))[:3]), true
	case "century":
		return date(fmtYear(anchor.AddDate(100*direction, 0, 0))[:2]), true
	}
	if wd, ok := weekdays[word]; ok {
		switch direction {
		case -1:
			return date(fmtDay(previousWeekday(anchor, wd, false))), true
		case 1:
			return date(fmtDay(nextWeekday(anchor, wd))), true
		default:
			return date(fmtDay(previousWeekday(anchor, wd, true))), true
		}
	}
	if code, ok := seasons[word]; ok {
		return date(fmtYear(anchor.AddDate(direction, 0, 0)) + "-" + code), true
	}
	if m, ok := months[word]; ok {
		year := anchor.Year() + direction
		return date(fmt.Sprintf("%04d-%02d", year, m)), true
	}
	return Value{}, false
}

// bareName resolves a lone weekday, season or month name against the anchor.
// News text overwhelmingly reports what already happened, so a bare weekday
// resolves to its most recent occurrence (including the anchor day itself).
func bareName(word string, anchor time.Time) (Value, bool) {
	if wd, ok := weekdays[word]; ok {
		return date(fmtDay(previousWeekday(anchor, wd, true))), true
	}
	if code, ok := seasons[word]; ok {
		return date(fmtYear(anchor) + "-" + code), true
	}
	if m, ok := months[word]; ok {
		return date(fmt.Sprintf("%04d-%02d", anchor.Year(), m)), true
	}
	return Value{}, false
}

var offsetRE = regexp.MustCompile(`^(?:about |around |nearly |almost |some )?(\S+) (second|minute|hour|day|week|month|year|decade|century|centurie)s? (ago|earlier|before|later|from now|afterwards?|hence)$`)

// offsetExpression resolves "<N> <unit> ago" and its forward-looking
// counterparts by calendar arithmetic from the anchor.
func offsetExpression(t string, anchor time.Time) (Value, bool) {
	m := offsetRE.FindStringSubmatch(t)
	if m == nil {
		return Value{}, false
	}
	n, ok := parseCount(m[1])
	if !ok {
		return Value{}, false
	}
	if m[3] == "ago" || m[3] == "earlier" || m[3] == "before" {
		n = -n
	}
	switch m[2] {
	case "second":
		return clock(anchor.Add(time.Duration(n) * time.Second).Format("2006-01-02T15:04")), true
	case "minute":
		return clock(anchor.Add(time.Duration(n) * time.Minute).Format("2006-01-02T15:04")), true
	case "hour":
		return clock(anchor.Add(time.Duration(n) * time.Hour).Format("2006-01-02T15:04")), true
	case "day":
		return date(fmtDay(anchor.AddDate(0, 0, n))), true
	case "week":
		return date(fmtDay(anchor.AddDate(0, 0, 7*n))), true
	case "month":
		return date(fmtMonth(anchor.AddDate(0, n, 0))), true
	case "year":
		return date(fmtYear(anchor.AddDate(n, 0, 0))), true
	case "decade":
		return date(fmtYear(anchor.AddDate(10*n, 0, 0))[:3]), true
	case "century", "centurie":
		return date(fmtYear(anchor.AddDate(100*n, 0, 0))[:2]), true
	}
	return Value{}, false
}

var durationRE = regexp.MustCompile(`^(?:for |over |about |around |nearly |almost |some )*(\S+)[ -](second|minute|hour|day|week|month|year|decade)s?(?: long)?$`)

// durationExpression resolves period expressions to ISO-8601 codes. Vague
// counts ("several weeks") keep the TimeML X placeholder.
func durationExpression(t string, _ time.Time) (Value, bool) {
	switch t {
	case "half an hour", "half hour":
		return duration("PT30M"), true
	case "half a day":
		return duration("PT12H"), true
	}
	// "a few weeks" reads as the vague count, not as one week.
	if rest, ok := strings.CutPrefix(t, "a few "); ok {
		t = "few " + rest
	}
	m := durationRE.FindStringSubmatch(t)
	if m == nil {
		return Value{}, false
	}
	var count string
	if n, ok := parseCount(m[1]); ok {
		count = strconv.Itoa(n)
	} else if vagueCounts[m[1]] {
		count = "X"
	} else {
		return Value{}, false
	}
	switch m[2] {
	case "second":
		return duration("PT" + count + "S"), true
	case "minute":
		return duration("PT" + count + "M"), true
	case "hour":
		return duration("PT" + count + "H"), true
	case "day":
		return duration("P" + count + "D"), true
	case "week":
		return duration("P" + count + "W"), true
	case "month":
		return duration("P" + count + "M"), true
	case "year":
		return duration("P" + count + "Y"), true
	case "decade":
		return duration("P" + count + "0Y"), true
	}
	return Value{}, false
}

var clockRE = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(a\.?m\.?|p\.?m\.?)?$`)

// clockTime resolves times of day onto the anchor date.
func clockTime(t string, anchor time.Time) (Value, bool) {
	switch t {
	case "noon", "midday":
		return clock(fmtDay(anchor) + "T12:00"), true
	case "midnight":
		return clock(fmtDay(anchor) + "T00:00"), true
	}
	m := clockRE.FindStringSubmatch(t)
	if m == nil {
		return Value{}, false
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil || hour > 23 {
		return Value{}, false
	}
	minute := 0
	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil || minute > 59 {
			return Value{}, false
		}
	}
	switch {
	case strings.HasPrefix(m[3], "p") && hour < 12:
		hour += 12
	case strings.HasPrefix(m[3], "a") && hour == 12:
		hour = 0
	case m[3] == "" && m[2] == "":
		// A bare small number is not a time.
		return Value{}, false
	}
	return clock(fmt.Sprintf("%sT%02d:%02d", fmtDay(anchor), hour, minute)), true
}

// absoluteLayouts pairs parse layouts with the output granularity they
// resolve to, most specific first.
var absoluteLayouts = []struct {
	layout string
	format func(time.Time) string
}{
	{"2006-01-02T15:04:05", func(d time.Time) string { return d.Format("2006-01-02T15:04:05") }},
	{"2006-01-02T15:04", func(d time.Time) string { return d.Format("2006-01-02T15:04") }},
	{"2006-01-02", fmtDay},
	{"2006/01/02", fmtDay},
	{"01/02/2006", fmtDay},
	{"January 2, 2006", fmtDay},
	{"January 2 2006", fmtDay},
	{"2 January 2006", fmtDay},
	{"Jan 2, 2006", fmtDay},
	{"Jan 2 2006", fmtDay},
	{"2 Jan 2006", fmtDay},
	{"January 2006", fmtMonth},
	{"January, 2006", fmtMonth},
	{"Jan 2006", fmtMonth},
	{"January 2", fmtDay}, // year filled from the anchor below
	{"Jan 2", fmtDay},
	{"2 January", fmtDay},
}

var (
	ordinalRE = regexp.MustCompile(`(\d+)(?:st|nd|rd|th)`)
	yearRE    = regexp.MustCompile(`^\d{4}$`)
	decadeRE  = regexp.MustCompile(`^(\d{3})0s$`)
	quarterRE = regexp.MustCompile(`^(first|second|third|fourth) quarter(?: of (\d{4}))?$`)
)

// absolute resolves explicit calendar expressions. Layouts with no year take
// the anchor's year; everything else resolves independently of the anchor,
// so re-normalizing an absolute date under any anchor is a fixed point.
func absolute(t string, anchor time.Time) (Value, bool) {
	t = ordinalRE.ReplaceAllString(t, "$1")

	if yearRE.MatchString(t) {
		return date(t), true
	}
	if m := decadeRE.FindStringSubmatch(t); m != nil {
		return date(m[1]), true
	}
	if m := quarterRE.FindStringSubmatch(t); m != nil {
		year := fmtYear(anchor)
		if m[2] != "" {
			year = m[2]
		}
		q := map[string]string{"first": "Q1", "second": "Q2", "third": "Q3", "fourth": "Q4"}[m[1]]
		return date(year + "-" + q), true
	}

	// Go's layout parser wants canonical month casing.
	titled := titleWords(t)
	for _, entry := range absoluteLayouts {
		parsed, err := time.Parse(entry.layout, titled)
		if err != nil {
			continue
		}
		// Yearless layouts sit at the end of the table and parse into year
		// 0; replant them onto the anchor's year.
		if parsed.Year() == 0 {
			parsed = time.Date(anchor.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		}
		return date(entry.format(parsed)), true
	}
	return Value{}, false
}

func titleWords(t string) string {
	fields := strings.Fields(t)
	for i, f := range fields {
		if len(f) > 0 && f[0] >= 'a' && f[0] <= 'z' {
			fields[i] = strings.ToUpper(f[:1]) + f[1:]
		}
	}
	return strings.Join(fields, " ")
}

// parseCount reads a cardinal as digits or as a number word; "a"/"an"
// count as one.
func parseCount(word string) (int, bool) {
	if n, err := strconv.Atoi(word); err == nil && n >= 0 {
		return n, true
	}
	if n, ok := numberWords[word]; ok {
		return n, true
	}
	return 0, false
}

func isoWeekday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// previousWeekday walks back to the nearest wd strictly before anchor, or
// including the anchor day itself when inclusive.
func previousWeekday(anchor time.Time, wd time.Weekday, inclusive bool) time.Time {
	d := anchor
	if !inclusive {
		d = d.AddDate(0, 0, -1)
	}
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// nextWeekday walks forward to the nearest wd strictly after anchor.
func nextWeekday(anchor time.Time, wd time.Weekday) time.Time {
	d := anchor.AddDate(0, 0, 1)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

var weekdays = map[string]time.Weekday{
	"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
	"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
	"sunday": time.Sunday,
	"mon":    time.Monday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "thur": time.Thursday,
	"thurs": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
	"sun": time.Sunday,
}

var months = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11,
	"december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7, "aug": 8,
	"sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
}

var seasons = map[string]string{
	"spring": "SP", "summer": "SU", "autumn": "FA", "fall": "FA", "winter": "WI",
}

var numberWords = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11,
	"twelve": 12, "twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90, "hundred": 100,
	"couple": 2, "dozen": 12,
}

var vagueCounts = map[string]bool{
	"several": true, "few": true, "many": true, "some": true, "recent": true,
}
