package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration renders an elapsed time in a human-scaled unit:
//
//	0.123ms, 225.438ms    below one second
//	3.869s                below one minute
//	1:05.250 (m:ss.mmm)   below one hour
//	2:03:04.500 (h:mm:ss.mmm)
func Duration(d time.Duration) string {
	ms := float64(d) / float64(time.Millisecond)
	if ms < 0 {
		ms = 0
	}

	var hours, minutes int64
	var seconds float64
	if ms >= 1000 {
		if ms >= 60_000 {
			if ms >= 3_600_000 {
				hours = int64(ms / 3_600_000)
				ms -= float64(hours) * 3_600_000
			}
			minutes = int64(ms / 60_000)
			ms -= float64(minutes) * 60_000
		}
		seconds = ms / 1000
	}

	if hours != 0 || minutes != 0 {
		sec, frac, _ := strings.Cut(strconv.FormatFloat(seconds, 'f', 3, 64), ".")
		if len(sec) < 2 {
			sec = "0" + sec
		}
		if hours != 0 {
			return fmt.Sprintf("%d:%02d:%s.%s (h:mm:ss.mmm)", hours, minutes, sec, frac)
		}
		return fmt.Sprintf("%d:%s.%s (m:ss.mmm)", minutes, sec, frac)
	}
	if seconds != 0 {
		return strconv.FormatFloat(seconds, 'f', 3, 64) + "s"
	}
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(ms, 'f', 3, 64), 64)
	return floatNumberText(rounded, 64) + "ms"
}
