// Package resolve decides, for each incoming record, whether it names a
// compound already in the registry (and merges it in) or a new compound (and
// creates it). Records must be processed in input order: a record can match
// names and aliases registered by earlier records of the same run.
package resolve

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"biochemreg/internal/index"
	"biochemreg/internal/names"
	"biochemreg/internal/structure"
	"biochemreg/pkg/domain"
)

// ErrNoSource is returned when the resolver is built without an alias source.
var ErrNoSource = errors.New("resolve: alias source required")

// Options configures a Resolver.
type Options struct {
	// Source is the external database (or curator) the records come from.
	Source string
	// NamesOnly skips the alias and structure stages.
	NamesOnly bool
	// Formats is the structure lookup priority; defaults to domain.DefaultFormatOrder.
	Formats    []domain.Format
	Normalizer names.Normalizer
	Deriver    structure.Deriver
	Logger     *slog.Logger
}

// Resolver owns a working copy of the registry and its indexes for one run.
type Resolver struct {
	opts    Options
	snap    domain.Snapshot
	idx     *index.Indexes
	cascade Cascade
	lastN   int
	width   int
	stats   Stats
	log     *slog.Logger
}

// New builds indexes from snap and prepares the cascade. snap is cloned; the
// caller's copy is never mutated.
func New(snap domain.Snapshot, opts Options) (*Resolver, error) {
	if strings.TrimSpace(opts.Source) == "" {
		return nil, ErrNoSource
	}
	if len(opts.Formats) == 0 {
		opts.Formats = domain.DefaultFormatOrder
	}
	if opts.Normalizer == nil {
		opts.Normalizer = names.NewCached(names.Default{})
	}
	if opts.Deriver == nil {
		opts.Deriver = structure.Default{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	work := snap.Clone()
	work.Normalize()
	idx := index.Build(work, opts.Normalizer, opts.Deriver)
	lastN, width := domain.HighestCompoundNumber(domain.SortedIDs(work.Compounds))

	r := &Resolver{
		opts:  opts,
		snap:  work,
		idx:   idx,
		lastN: lastN,
		width: width,
		stats: newStats(),
		log:   logger.With("component", "resolver", "source", opts.Source),
	}
	r.cascade = r.buildCascade()
	for _, rec := range idx.Structures.Rejected() {
		r.log.Warn("structure skipped: undefined tier",
			"compound", rec.CompoundID,
			"format", string(rec.Format),
			"tier", int(rec.Tier))
	}
	r.log.Debug("indexes built",
		"compounds", len(work.Compounds),
		"aliases", idx.Aliases.Len(),
		"structures", idx.Structures.Len(),
		"name_keys", idx.Names.Len())
	return r, nil
}

func (r *Resolver) buildCascade() Cascade {
	var c Cascade
	if !r.opts.NamesOnly {
		c = append(c,
			AliasMatcher{Source: r.opts.Source, Aliases: r.idx.Aliases},
			StructureMatcher{Formats: r.opts.Formats, Deriver: r.opts.Deriver, Structures: r.idx.Structures},
		)
	}
	c = append(c, NameMatcher{
		Normalizer:      r.opts.Normalizer,
		Names:           r.idx.Names,
		Structures:      r.idx.Structures,
		GuardStructures: !r.opts.NamesOnly,
		Formats:         r.opts.Formats,
	})
	return c
}

// Process resolves rec and applies the merge or create outcome.
func (r *Resolver) Process(rec domain.Record) domain.Provenance {
	rec.Names = cleanNames(rec.Names)
	var p domain.Provenance
	if m, ok := r.cascade.Resolve(rec); ok {
		p = r.merge(rec, m)
	} else {
		p = r.create(rec)
	}
	r.checkStructureConflicts(rec, &p)
	r.stats.observe(p)
	r.log.Debug("record processed",
		"record", rec.ExternalID,
		"compound", p.CompoundID,
		"kind", p.Kind.String(),
		"tier", p.Tier,
		"created", p.Created)
	for _, w := range p.Warnings {
		r.log.Warn(w, "record", rec.ExternalID, "line", rec.Line)
	}
	return p
}

func (r *Resolver) merge(rec domain.Record, m Match) domain.Provenance {
	p := domain.Provenance{
		RecordID:   rec.ExternalID,
		Source:     r.opts.Source,
		CompoundID: m.CompoundID,
		Kind:       m.Kind,
		Matched:    m.Matched,
		Tier:       m.Tier,
	}
	p.NamesAdded = r.addNames(m.CompoundID, rec.Names, &p)
	if m.Kind != domain.MatchAlias {
		p.AliasAdded = r.addAlias(m.CompoundID, rec.ExternalID, &p)
	}
	c, ok := r.snap.Compounds[m.CompoundID]
	if !ok {
		p.Warnings = append(p.Warnings, fmt.Sprintf("compound %s is indexed but missing from the registry; source not updated", m.CompoundID))
		return p
	}
	c.Source = domain.SourcePrimaryDatabase
	r.snap.Compounds[m.CompoundID] = c
	return p
}

func (r *Resolver) create(rec domain.Record) domain.Provenance {
	id := r.mintID()
	c := domain.NewCompound(id)
	if rec.Mass != nil {
		c.Mass = *rec.Mass
	}
	if rec.Charge != nil {
		c.Charge = *rec.Charge
	}
	if rec.Formula != nil && *rec.Formula != "" {
		c.Formula = *rec.Formula
	}
	if v, ok := rec.StructureValue(domain.FormatInChIKey); ok {
		c.InChIKey = v
	}
	if v, ok := rec.StructureValue(domain.FormatSMILES); ok {
		c.SMILES = v
	}

	p := domain.Provenance{
		RecordID:   rec.ExternalID,
		Source:     r.opts.Source,
		CompoundID: id,
		Kind:       domain.MatchNone,
		Created:    true,
	}

	// A new compound always keeps its own alias, even when names-only mode
	// let an already-aliased id through.
	if owners := r.idx.Aliases.Lookup(r.opts.Source, rec.ExternalID); len(owners) > 0 {
		p.Warnings = append(p.Warnings, fmt.Sprintf("%s alias %s also registered to %s",
			r.opts.Source, rec.ExternalID, strings.Join(owners, ",")))
	}
	r.snap.Aliases[id] = map[string][]string{r.opts.Source: {rec.ExternalID}}
	r.idx.Aliases.Add(r.opts.Source, rec.ExternalID, id)
	p.AliasAdded = true

	if len(rec.Names) > 0 {
		c.Name = rec.Names[0]
		c.Abbreviation = rec.Names[0]
	} else {
		c.Name = rec.ExternalID
		c.Abbreviation = rec.ExternalID
	}
	p.NamesAdded = r.addNames(id, rec.Names, &p)

	c.Source = domain.SourcePrimaryDatabase
	r.snap.Compounds[id] = c
	return p
}

// mintID returns the next identifier above every identifier seen so far.
func (r *Resolver) mintID() string {
	for {
		r.lastN++
		id := domain.FormatCompoundID(r.lastN, r.width)
		if _, taken := r.snap.Compounds[id]; !taken {
			return id
		}
	}
}

// addNames appends names not yet registered anywhere. A name whose search key
// belongs to another compound is skipped so that no key is ever shared.
func (r *Resolver) addNames(id string, candidates []string, p *domain.Provenance) []string {
	var added []string
	for _, name := range candidates {
		if r.idx.Names.HasName(name) {
			continue
		}
		keys := r.opts.Normalizer.SearchKeys(name)
		if owner, conflict := r.idx.Names.ConflictingOwner(keys, id); conflict {
			p.Warnings = append(p.Warnings, fmt.Sprintf("name %q not added to %s: search key already belongs to %s", name, id, owner))
			continue
		}
		r.snap.Names[id] = append(r.snap.Names[id], name)
		r.idx.Names.Register(name)
		for _, k := range keys {
			r.idx.Names.Claim(k, id)
		}
		added = append(added, name)
	}
	return added
}

// addAlias registers externalID under the run source. An alias already owned
// by a different compound in the same source is rejected with a warning.
func (r *Resolver) addAlias(id, externalID string, p *domain.Provenance) bool {
	source := r.opts.Source
	owners := r.idx.Aliases.Lookup(source, externalID)
	if contains(owners, id) {
		return false
	}
	if len(owners) > 0 {
		p.Warnings = append(p.Warnings, fmt.Sprintf("%s alias %s already registered to %s; not added to %s",
			source, externalID, strings.Join(owners, ","), id))
		return false
	}
	bySource, ok := r.snap.Aliases[id]
	if !ok {
		bySource = make(map[string][]string)
		r.snap.Aliases[id] = bySource
	}
	bySource[source] = append(bySource[source], externalID)
	r.idx.Aliases.Add(source, externalID, id)
	return true
}

// checkStructureConflicts warns when a record's structure is registered to
// compounds other than the one it was resolved to. The field that produced a
// structure match is not checked again.
func (r *Resolver) checkStructureConflicts(rec domain.Record, p *domain.Provenance) {
	for _, format := range r.opts.Formats {
		for _, field := range rec.Structures {
			if field.Format != format || field.Value == "" {
				continue
			}
			if r.producedMatch(field, p) {
				continue
			}
			owners := r.idx.Structures.Owners(format, field.Value)
			if len(owners) == 0 || contains(owners, p.CompoundID) {
				continue
			}
			p.Warnings = append(p.Warnings, fmt.Sprintf("%s structure for %s assigned to different compounds: %s",
				format, rec.ExternalID, strings.Join(owners, ",")))
		}
	}
}

func (r *Resolver) producedMatch(field domain.StructureField, p *domain.Provenance) bool {
	if !p.Kind.IsStructure() || domain.StructureMatch(field.Format) != p.Kind {
		return false
	}
	for _, v := range r.opts.Deriver.Variants(field.Value, field.Format) {
		if v == p.Matched {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the working registry.
func (r *Resolver) Snapshot() domain.Snapshot {
	out := r.snap.Clone()
	out.Normalize()
	return out
}

// Stats returns a copy of the aggregate counters.
func (r *Resolver) Stats() Stats { return r.stats.clone() }

// Indexes exposes the live indexes for inspection.
func (r *Resolver) Indexes() *index.Indexes { return r.idx }

func cleanNames(in []string) []string {
	out := make([]string, 0, len(in))
	for _, n := range in {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
