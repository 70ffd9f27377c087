package extract

import (
	"regexp"
	"strconv"
)

// EngagementPatterns match the accessible names of the like and comment
// controls. The first capture group must hold the count.
type EngagementPatterns struct {
	Likes    *regexp.Regexp
	Comments *regexp.Regexp
}

// DefaultEngagementPatterns returns the patterns for the platform's
// English UI labels.
func DefaultEngagementPatterns() EngagementPatterns {
	return EngagementPatterns{
		Likes:    regexp.MustCompile(`Like \((\d+)\)`),
		Comments: regexp.MustCompile(`View comments \((\d+)\)`),
	}
}

// EngagementCount extracts the count captured by re from an accessible
// name such as "Like (42)". It reports false when the label carries no
// count.
func EngagementCount(label string, re *regexp.Regexp) (int, bool) {
	m := re.FindStringSubmatch(label)
	if len(m) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
