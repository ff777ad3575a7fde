package trace

import "regexp"

// Each octet is 0-255 with no leading zeros: 250-255, 200-249, 100-199, 10-99, 0-9.
var ipv4Pattern = regexp.MustCompile(`^(?:25[0-5]|2[0-4]\d|1\d{2}|[1-9]\d|\d)(?:\.(?:25[0-5]|2[0-4]\d|1\d{2}|[1-9]\d|\d)){3}$`)

// IsValidIPv4 reports whether s is a strict dotted-quad IPv4 address.
func IsValidIPv4(s string) bool {
	return ipv4Pattern.MatchString(s)
}
