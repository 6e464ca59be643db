package series

import (
	"sort"

	"macropulse/domain/core"
)

// Series is a cleaned, immutable sequence of observations sorted
// ascending by year with unique years and no fully-missing rows.
// Years are first-class keys: the sequence may be sparse, so all
// lookups go through the year index rather than slice positions.
type Series struct {
	obs    []Observation
	byYear map[int]int // year -> index into obs
}

// New cleans raw observations into a Series: sorts ascending by year,
// collapses duplicate years (the last raw entry wins), and drops rows
// where every indicator is missing. Returns ErrEmptyDataset when the
// input is empty or nothing survives cleaning.
func New(raw []Observation) (Series, error) {
	if len(raw) == 0 {
		return Series{}, core.NewEmptyDatasetError("input")
	}

	dedup := make(map[int]Observation, len(raw))
	for _, o := range raw {
		if o.IsEmpty() {
			continue
		}
		dedup[o.Year] = o
	}
	if len(dedup) == 0 {
		return Series{}, core.NewEmptyDatasetError("cleaning")
	}

	obs := make([]Observation, 0, len(dedup))
	for _, o := range dedup {
		obs = append(obs, o)
	}
	sort.Slice(obs, func(i, j int) bool { return obs[i].Year < obs[j].Year })

	byYear := make(map[int]int, len(obs))
	for i, o := range obs {
		byYear[o.Year] = i
	}

	return Series{obs: obs, byYear: byYear}, nil
}

// Len returns the number of retained observations.
func (s Series) Len() int {
	return len(s.obs)
}

// Observations returns a copy of the cleaned rows in year order.
func (s Series) Observations() []Observation {
	out := make([]Observation, len(s.obs))
	copy(out, s.obs)
	return out
}

// Years returns the retained years in ascending order.
func (s Series) Years() []int {
	out := make([]int, len(s.obs))
	for i, o := range s.obs {
		out[i] = o.Year
	}
	return out
}

// MinYear returns the first retained year.
func (s Series) MinYear() int {
	if len(s.obs) == 0 {
		return 0
	}
	return s.obs[0].Year
}

// MaxYear returns the last retained year.
func (s Series) MaxYear() int {
	if len(s.obs) == 0 {
		return 0
	}
	return s.obs[len(s.obs)-1].Year
}

// HasYear reports whether an observation exists for the given year.
func (s Series) HasYear(year int) bool {
	_, ok := s.byYear[year]
	return ok
}

// ValueAt returns the indicator's value for a specific year. The second
// return is false when the year is absent or the value is missing.
func (s Series) ValueAt(year int, ind Indicator) (float64, bool) {
	i, ok := s.byYear[year]
	if !ok {
		return 0, false
	}
	v := s.obs[i].Value(ind)
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Values returns the years and values where the indicator is non-missing,
// in ascending year order. The two slices are parallel.
func (s Series) Values(ind Indicator) ([]int, []float64) {
	years := make([]int, 0, len(s.obs))
	vals := make([]float64, 0, len(s.obs))
	for _, o := range s.obs {
		if v := o.Value(ind); v != nil {
			years = append(years, o.Year)
			vals = append(vals, *v)
		}
	}
	return years, vals
}
