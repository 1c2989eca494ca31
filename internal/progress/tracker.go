package progress

import "math"

// Tracker counts completed steps against a total fixed before the run starts.
//
// emit is called with the rounded percentage after a step only when it differs
// from the previously emitted value, so output never repeats a percentage.
type Tracker struct {
	total     int
	completed int
	last      int
	emit      func(percent int)
}

// NewTracker creates a Tracker for total steps. emit may be nil.
func NewTracker(total int, emit func(percent int)) *Tracker {
	return &Tracker{
		total: total,
		last:  -1,
		emit:  emit,
	}
}

// Step records one completed step and returns the current percentage
func (t *Tracker) Step() int {
	t.completed++
	percent := t.Percentage()
	if percent != t.last {
		t.last = percent
		if t.emit != nil {
			t.emit(percent)
		}
	}
	return percent
}

// Percentage returns round(100 * completed / total), clamped to [0, 100]
func (t *Tracker) Percentage() int {
	if t.total <= 0 {
		return 100
	}
	percent := int(math.Round(100 * float64(t.completed) / float64(t.total)))
	if percent > 100 {
		return 100
	}
	return percent
}

// Completed returns the number of steps reported so far
func (t *Tracker) Completed() int {
	return t.completed
}

// Total returns the number of steps the run was planned with
func (t *Tracker) Total() int {
	return t.total
}
