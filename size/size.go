package size

import (
	"fmt"
	"regexp"
	"strconv"
)

// Size is a byte count that implements flag.Value, e.g. "64kb", "0x10mb", "1500".
type Size int64

var (
	rB  = regexp.MustCompile(`(?i)^(?:0b|0x|0o)?[\da-f_]+$`)
	rKB = regexp.MustCompile(`(?i)^(?:0b|0x|0o)?[\da-f_]+kb$`)
	rMB = regexp.MustCompile(`(?i)^(?:0b|0x|0o)?[\da-f_]+mb$`)
	rGB = regexp.MustCompile(`(?i)^(?:0b|0x|0o)?[\da-f_]+gb$`)
)

const (
	_ = 1 << (iota * 10)
	KB
	MB
	GB
)

// Set parses a size written in any Go integer base with an optional unit suffix.
func (siz *Size) Set(value string) error {
	if value == "" {
		return nil
	}

	var (
		n    int64
		err  error
		unit int64 = 1
		num        = value
	)
	switch {
	case rB.MatchString(value):
	case rKB.MatchString(value):
		unit = KB
	case rMB.MatchString(value):
		unit = MB
	case rGB.MatchString(value):
		unit = GB
	default:
		return fmt.Errorf("invalid size %q", value)
	}
	if unit > 1 {
		num = value[:len(value)-2]
	}

	n, err = strconv.ParseInt(num, 0, 64)
	if err != nil {
		return fmt.Errorf("invalid size %q: %v", value, err)
	}
	*siz = Size(n * unit)
	return nil
}

func (siz *Size) String() string {
	return fmt.Sprintf("%d", *siz)
}

// Int returns the size as an int, saturating at the int32 range used by libpcap.
func (siz Size) Int() int {
	if siz > 1<<31-1 {
		return 1<<31 - 1
	}
	if siz < 0 {
		return 0
	}
	return int(siz)
}
