package metrics

import "time"

// Snapshot holds every raw metric value for one symbol on one
// calculation date. Values are nullable: an absent key or nil entry
// means the field is genuinely unavailable for this symbol. Snapshots
// are read-only after collection; nothing downstream mutates them.
type Snapshot struct {
	Symbol string
	Date   time.Time
	values map[Metric]float64
}

// NewSnapshot creates an empty snapshot for a symbol and date
func NewSnapshot(symbol string, date time.Time) *Snapshot {
	return &Snapshot{
		Symbol: symbol,
		Date:   date,
		values: make(map[Metric]float64),
	}
}

// Set records a non-null value. Nil pointers are dropped so that a
// missing field stays distinguishable from zero.
func (s *Snapshot) Set(m Metric, v *float64) {
	if v == nil {
		return
	}
	s.values[m] = *v
}

// Get returns the metric's value and whether it is present
func (s *Snapshot) Get(m Metric) (float64, bool) {
	v, ok := s.values[m]
	return v, ok
}

// Has reports whether the metric is present
func (s *Snapshot) Has(m Metric) bool {
	_, ok := s.values[m]
	return ok
}

// Count returns the number of present values
func (s *Snapshot) Count() int {
	return len(s.values)
}
