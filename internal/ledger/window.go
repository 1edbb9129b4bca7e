package ledger

import (
	"fmt"
	"time"
)

// Window is a daily closed interval of wall-clock time during which
// withdrawals are accepted. Offsets are measured from local midnight.
type Window struct {
	Start    time.Duration
	End      time.Duration
	Location *time.Location
}

// DefaultWindow is 08:00 to 14:00 local time, both ends inclusive.
func DefaultWindow() Window {
	return Window{Start: 8 * time.Hour, End: 14 * time.Hour, Location: time.Local}
}

// ParseWindow builds a Window from "HH:MM" bounds.
func ParseWindow(start, end string, loc *time.Location) (Window, error) {
	s, err := parseClock(start)
	if err != nil {
		return Window{}, fmt.Errorf("window start: %w", err)
	}
	e, err := parseClock(end)
	if err != nil {
		return Window{}, fmt.Errorf("window end: %w", err)
	}
	if e < s {
		return Window{}, fmt.Errorf("window end %s is before start %s", end, start)
	}
	if loc == nil {
		loc = time.Local
	}
	return Window{Start: s, End: e, Location: loc}, nil
}

func parseClock(v string) (time.Duration, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", v, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Contains reports whether t falls inside the window. The comparison uses
// the full time of day, so 14:00:00 is inside a window ending at 14:00 and
// 14:00:01 is not.
func (w Window) Contains(t time.Time) bool {
	loc := w.Location
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	tod := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
	return tod >= w.Start && tod <= w.End
}

// String renders the window as "HH:MM - HH:MM".
func (w Window) String() string {
	return fmt.Sprintf("%s - %s", formatOffset(w.Start), formatOffset(w.End))
}

func formatOffset(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
