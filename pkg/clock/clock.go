package clock

import "time"

// Night service starts at 18:00; before that every serving counts
// against the Day bucket.
const NightHour = 18

// Noon is the cutoff hour for both the weekly and the rolling windows.
const cutoffHour = 12

// Clock abstracts "now" so the window rules and the quota bucket can be
// tested with pinned timestamps.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func Real() Clock { return realClock{} }

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

// Fixed returns a Clock pinned to t.
func Fixed(t time.Time) Clock { return fixedClock{t} }

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func SameDate(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// WeekStart returns the Monday 00:00 of the week containing t
// (weeks run Monday through Sunday).
func WeekStart(t time.Time) time.Time {
	// Go weekday has Sunday = 0; shift so Monday = 0
	offset := (int(t.Weekday()) + 6) % 7
	return DateOf(t).AddDate(0, 0, -offset)
}

// NextWeekWindow returns the Monday and Sunday (both at 00:00) of the
// calendar week that follows the week containing now. Advance orders
// must land inside this window.
func NextWeekWindow(now time.Time) (monday, sunday time.Time) {
	monday = WeekStart(now).AddDate(0, 0, 7)
	sunday = monday.AddDate(0, 0, 6)
	return
}

// InNextWeek reports whether date falls inside the advance-ordering
// window relative to now.
func InNextWeek(date, now time.Time) bool {
	mon, sun := NextWeekWindow(now)
	d := DateOf(date)
	return !d.Before(mon) && !d.After(sun)
}

// NextWeekCutoff is the moment next-week orders stop being mutable for
// ordinary users: noon of the Sunday right before the window opens.
func NextWeekCutoff(now time.Time) time.Time {
	sunday := WeekStart(now).AddDate(0, 0, 6)
	return sunday.Add(cutoffHour * time.Hour)
}

// DayBeforeNoon is the rolling cutoff: noon on the day before the
// consumption date.
func DayBeforeNoon(date time.Time) time.Time {
	return DateOf(date).AddDate(0, 0, -1).Add(cutoffHour * time.Hour)
}

// IsNight reports whether t falls in the night service bucket.
func IsNight(t time.Time) bool {
	return t.Hour() >= NightHour
}
