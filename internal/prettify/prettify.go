package prettify

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

const DefaultDateFormat = "YYYY-MM-DD HH:mm:ss"

var (
	sizes      = []string{"B", "KB", "MB", "GB"}
	dateTokens = regexp.MustCompile(`YYYY|MM|DD|HH|mm|ss`)
)

// FileSize renders a byte count in base 1024 units, rounded to two decimals
// with trailing zeros dropped: 0 -> "0 B", 1536 -> "1.5 KB".
func FileSize(value int64) string {
	if value <= 0 {
		return fmt.Sprintf("%d B", value)
	}

	b := float64(value)
	i := 0
	for b >= 1024 && i < len(sizes)-1 {
		b /= 1024
		i++
	}

	rounded := math.Round(b*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizes[i]
}

// Date substitutes the YYYY, MM, DD, HH, mm and ss tokens of format with the
// zero-padded components of t. Everything else is copied as is.
func Date(t time.Time, format string) string {
	return dateTokens.ReplaceAllStringFunc(format, func(token string) string {
		switch token {
		case "YYYY":
			return strconv.Itoa(t.Year())
		case "MM":
			return fmt.Sprintf("%02d", int(t.Month()))
		case "DD":
			return fmt.Sprintf("%02d", t.Day())
		case "HH":
			return fmt.Sprintf("%02d", t.Hour())
		case "mm":
			return fmt.Sprintf("%02d", t.Minute())
		default:
			return fmt.Sprintf("%02d", t.Second())
		}
	})
}
