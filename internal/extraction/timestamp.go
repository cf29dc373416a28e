package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var timestampRe = regexp.MustCompile(`(?i)(?:\bon|في)\s+(\d{1,2})/(\d{1,2})/(\d{2,4})\s+(?:at\s+)?(\d{1,2}):(\d{2})(?:\s*([ap]\.?m\.?))?`)

// parseTimestamp interprets "on 21/12/25 14:30" (day/month/year) in loc. Two-digit
// years are 20xx. Out-of-range components and calendar dates that do not exist make
// the whole timestamp absent.
func parseTimestamp(text string, loc *time.Location) (time.Time, bool) {
	m := timestampRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])

	switch len(m[3]) {
	case 2:
		year += 2000
	case 4:
	default:
		return time.Time{}, false
	}

	if month < 1 || month > 12 || day < 1 || day > 31 || minute > 59 {
		return time.Time{}, false
	}

	if suffix := strings.ToLower(strings.ReplaceAll(m[6], ".", "")); suffix != "" {
		if hour < 1 || hour > 12 {
			return time.Time{}, false
		}
		hour %= 12
		if suffix == "pm" {
			hour += 12
		}
	} else if hour > 23 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}
