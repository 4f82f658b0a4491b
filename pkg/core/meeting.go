package core

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

type DayOfWeek string

const (
	Monday    DayOfWeek = "Monday"
	Tuesday   DayOfWeek = "Tuesday"
	Wednesday DayOfWeek = "Wednesday"
	Thursday  DayOfWeek = "Thursday"
	Friday    DayOfWeek = "Friday"
)

// MeetingTime is one recurring class meeting: a set of weekdays plus a
// start/end time of day expressed in minutes since midnight.
type MeetingTime struct {
	Days      []DayOfWeek `json:"days" mapstructure:"days"`
	StartTime int         `json:"start_time" mapstructure:"start_time"`
	EndTime   int         `json:"end_time" mapstructure:"end_time"`
	Location  string      `json:"location,omitempty" mapstructure:"location"`
}

// ConflictsWith reports whether two meetings collide: their day sets must
// intersect and their [start, end) intervals must overlap. Meetings that
// merely touch (one ends exactly when the other starts) do not conflict.
// The relation is symmetric.
func (meeting MeetingTime) ConflictsWith(other MeetingTime) bool {
	sharedDay := lo.SomeBy(meeting.Days, func(day DayOfWeek) bool {
		return lo.Contains(other.Days, day)
	})
	if !sharedDay {
		return false
	}
	return meeting.StartTime < other.EndTime && other.StartTime < meeting.EndTime
}

// ParseClock converts a wall-clock string such as "9:30" into minutes since
// midnight. Malformed input parses to 0 rather than failing.
func ParseClock(clock string) int {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0
	}
	return hour*60 + minute
}
