package kernel

import (
	"strings"
	"time"

	"github.com/go-sif/optimus"
)

// Now is the clock used by relative date computations
var Now = time.Now

var directives = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'e': "_2",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'f': "000000",
	'p': "PM",
	'b': "Jan",
	'h': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'j': "002",
	'z': "-0700",
	'Z': "MST",
	'F': "2006-01-02",
	'T': "15:04:05",
	'D': "01/02/06",
	'%': "%",
}

// Layout translates a strftime-style format into a Go time layout.
// Unknown directives are kept verbatim.
func Layout(format string) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i == len(format)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		if layout, ok := directives[format[i]]; ok {
			b.WriteString(layout)
		} else {
			b.WriteByte('%')
			b.WriteByte(format[i])
		}
	}
	return b.String()
}

// DateFormat reparses values with currentFormat and renders them with outputFormat.
// Values which do not match currentFormat become null.
func DateFormat(currentFormat string, outputFormat string) optimus.ValueFunc {
	out := Layout(outputFormat)
	return func(v interface{}) (interface{}, error) {
		t, ok := ToDatetime(v, currentFormat)
		if !ok {
			return nil, nil
		}
		return t.Format(out), nil
	}
}

// YearsBetween computes the fractional number of years from today to each date,
// as a whole day count divided by 365. Dates in the past produce negative values.
func YearsBetween(dateFormat string) optimus.ValueFunc {
	return func(v interface{}) (interface{}, error) {
		t, ok := ToDatetime(v, dateFormat)
		if !ok {
			return nil, nil
		}
		today := truncateDay(Now())
		days := int64(truncateDay(t).Sub(today).Hours() / 24)
		return float64(days) / 365, nil
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
