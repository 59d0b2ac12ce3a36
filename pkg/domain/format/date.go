package format

import "github.com/vsinha/planviz/pkg/domain/entities"

// ShortDate renders a payload date as "Jan 2". Unparsable input is returned unchanged.
func ShortDate(s string) string {
	t, ok := entities.ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2")
}

// DateRange renders "start – end", collapsing equal endpoints to one date
func DateRange(start, end string) string {
	if end == "" || end == start {
		return ShortDate(start)
	}
	return ShortDate(start) + " – " + ShortDate(end)
}
