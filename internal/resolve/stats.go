package resolve

import (
	"sort"

	"biochemreg/pkg/domain"
)

// Stats aggregates run outcomes for operator summaries.
type Stats struct {
	Records        int
	Matched        map[domain.MatchKind]int
	MatchedTargets map[domain.MatchKind]map[string]struct{}
	Unmatched      int
	Created        []string
	NamesAddedTo   map[string]struct{}
	AliasesAddedTo map[string]struct{}
	NamesAdded     int
	AliasesAdded   int
	Warnings       int
}

func newStats() Stats {
	return Stats{
		Matched:        make(map[domain.MatchKind]int),
		MatchedTargets: make(map[domain.MatchKind]map[string]struct{}),
		NamesAddedTo:   make(map[string]struct{}),
		AliasesAddedTo: make(map[string]struct{}),
	}
}

func (s *Stats) observe(p domain.Provenance) {
	s.Records++
	s.Warnings += len(p.Warnings)
	if p.Resolved() {
		s.Matched[p.Kind]++
		targets, ok := s.MatchedTargets[p.Kind]
		if !ok {
			targets = make(map[string]struct{})
			s.MatchedTargets[p.Kind] = targets
		}
		targets[p.CompoundID] = struct{}{}
	} else {
		s.Unmatched++
	}
	if p.Created {
		s.Created = append(s.Created, p.CompoundID)
	}
	if len(p.NamesAdded) > 0 {
		s.NamesAdded += len(p.NamesAdded)
		s.NamesAddedTo[p.CompoundID] = struct{}{}
	}
	if p.AliasAdded {
		s.AliasesAdded++
		s.AliasesAddedTo[p.CompoundID] = struct{}{}
	}
}

// Kinds returns the match kinds seen, in ascending order.
func (s Stats) Kinds() []domain.MatchKind {
	out := make([]domain.MatchKind, 0, len(s.Matched))
	for k := range s.Matched {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s Stats) clone() Stats {
	out := newStats()
	out.Records = s.Records
	out.Unmatched = s.Unmatched
	out.NamesAdded = s.NamesAdded
	out.AliasesAdded = s.AliasesAdded
	out.Warnings = s.Warnings
	out.Created = append([]string(nil), s.Created...)
	for k, v := range s.Matched {
		out.Matched[k] = v
	}
	for k, targets := range s.MatchedTargets {
		cp := make(map[string]struct{}, len(targets))
		for id := range targets {
			cp[id] = struct{}{}
		}
		out.MatchedTargets[k] = cp
	}
	for id := range s.NamesAddedTo {
		out.NamesAddedTo[id] = struct{}{}
	}
	for id := range s.AliasesAddedTo {
		out.AliasesAddedTo[id] = struct{}{}
	}
	return out
}
