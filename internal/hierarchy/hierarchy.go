// Package hierarchy implements the privilege ordering used to gate hierarchy
// grants. Role labels are free text supplied by humans across very different
// institutions, so they are classified into one of four ordered levels by
// keyword matching rather than constrained to an enum at submission time.
package hierarchy

import "strings"

// Level is an ordered privilege tier. Lower numeric value means higher
// privilege; comparisons always use the numeric ordering, never the label
// string.
type Level int

const (
	// Management is the highest privilege level.
	Management Level = 1
	// Hod covers heads of department and equivalent managers.
	Hod Level = 2
	// Faculty covers teaching and team-lead roles.
	Faculty Level = 3
	// Alumni is the lowest privilege level and the default bucket.
	Alumni Level = 4
)

// String returns the canonical label for a level.
func (l Level) String() string {
	switch l {
	case Management:
		return "management"
	case Hod:
		return "hod"
	case Faculty:
		return "faculty"
	default:
		return "alumni"
	}
}

// AtLeast reports whether l carries at least the privilege of min.
func (l Level) AtLeast(min Level) bool {
	return l <= min
}

// classifierRules are matched in priority order; the first rule whose keyword
// set hits wins. Unmatched labels fall through to Alumni, the least
// privileged bucket.
var classifierRules = []struct {
	keywords []string
	level    Level
}{
	{[]string{"management", "principal", "director"}, Management},
	{[]string{"hod", "head", "manager"}, Hod},
	{[]string{"faculty", "teacher", "professor", "instructor", "team"}, Faculty},
}

// Classify maps a free-text role label to a Level. It is total: empty input
// and labels matching no keyword both classify as Alumni.
func Classify(label string) Level {
	if label == "" {
		return Alumni
	}
	s := strings.ToLower(label)
	for _, rule := range classifierRules {
		for _, kw := range rule.keywords {
			if strings.Contains(s, kw) {
				return rule.level
			}
		}
	}
	return Alumni
}

// CanGrant reports whether an actor holding actorLabel may grant targetLabel.
// An actor may grant any level at or below their own privilege: Management
// can grant anything, Hod can grant Hod/Faculty/Alumni, and an actor with no
// label (classified Alumni) can only grant Alumni.
func CanGrant(actorLabel, targetLabel string) bool {
	return Classify(actorLabel) <= Classify(targetLabel)
}
