package models

import (
	"sort"
	"sync"
)

// ChartStore holds chart snapshots keyed by (category, week). Reads hand
// out copies; the caller never sees live snapshot memory.
type ChartStore struct {
	mu   sync.RWMutex
	data map[string]map[string]*ChartSnapshot
}

func NewChartStore() *ChartStore {
	return &ChartStore{data: make(map[string]map[string]*ChartSnapshot)}
}

func (s *ChartStore) Get(category, week string) (*ChartSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	weeks, ok := s.data[category]
	if !ok {
		return nil, false
	}
	snap, ok := weeks[week]
	if !ok {
		return nil, false
	}
	return snap.Clone(), true
}

// Put stores or overwrites the snapshot for its (category, week). The
// last writer wins; concurrent recomputes of the same week are an
// accepted race.
func (s *ChartStore) Put(snap *ChartSnapshot) {
	if snap == nil || snap.Category == "" || snap.Week == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	weeks, ok := s.data[snap.Category]
	if !ok {
		weeks = make(map[string]*ChartSnapshot)
		s.data[snap.Category] = weeks
	}
	weeks[snap.Week] = snap.Clone()
}

// Weeks lists the stored week keys for a category, most recent first.
// Zero-padded ISO week keys sort lexically in chronological order.
func (s *ChartStore) Weeks(category string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	weeks := make([]string, 0, len(s.data[category]))
	for week := range s.data[category] {
		weeks = append(weeks, week)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(weeks)))
	return weeks
}

func (s *ChartStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, weeks := range s.data {
		total += len(weeks)
	}
	return total
}

func (s *ChartStore) PutData(data map[string]map[string]*ChartSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]map[string]*ChartSnapshot, len(data))
	for category, weeks := range data {
		if category == "" || weeks == nil {
			continue
		}
		cp := make(map[string]*ChartSnapshot, len(weeks))
		for week, snap := range weeks {
			if week == "" || snap == nil {
				continue
			}
			cp[week] = snap.Clone()
		}
		s.data[category] = cp
	}
}

func (s *ChartStore) GetData() map[string]map[string]*ChartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]map[string]*ChartSnapshot, len(s.data))
	for category, weeks := range s.data {
		cp := make(map[string]*ChartSnapshot, len(weeks))
		for week, snap := range weeks {
			cp[week] = snap.Clone()
		}
		result[category] = cp
	}
	return result
}
