// Package rolefilter narrows raw SRL output to the configured verb and role
// surface before grounding.
package rolefilter

import (
	"strconv"

	"srlprep/internal/asrl"
	"srlprep/internal/config"
	"srlprep/internal/lemma"
	"srlprep/internal/sources"
	"srlprep/internal/textutil"
)

// Filter applies the verb exclusion set and the role allow-list to raw SRL
// output. Predicates are pure; the same Filter is shared across workers.
type Filter struct {
	excluded map[string]struct{}
	roles    []string
	roleSet  map[string]struct{}
	noneWord string
}

// New builds a Filter from the pipeline configuration.
func New(cfg *config.Config) *Filter {
	return &Filter{
		excluded: cfg.ExcludedVerbs(),
		roles:    append([]string(nil), cfg.Pipeline.IncludeSRLArgs...),
		roleSet:  cfg.IncludedRoles(),
		noneWord: cfg.Pipeline.NoneWord,
	}
}

// KeepVerb reports whether a verb occurrence with the given lemma survives
// the exclusion set.
func (f *Filter) KeepVerb(lemmaValue string) bool {
	_, excluded := f.excluded[textutil.Normalize(lemmaValue)]
	return !excluded
}

// KeepRole reports whether a role label is in the allow-list.
func (f *Filter) KeepRole(role string) bool {
	_, ok := f.roleSet[role]
	return ok
}

// Roles returns the allow-list in its configured order. Every emitted row
// and frame follows this role order.
func (f *Filter) Roles() []string {
	return f.roles
}

// NoneWord returns the placeholder for allow-listed roles the SRL output
// lacks.
func (f *Filter) NoneWord() string {
	return f.noneWord
}

// Apply filters one record's verb occurrences into SRL frames. VerbIdx keeps
// the occurrence's position in the raw verb list so identifiers stay stable
// when earlier occurrences are excluded. Allow-listed roles missing from the
// SRL output carry the none word.
func (f *Filter) Apply(verbs []sources.Verb, resolver *lemma.Resolver) []asrl.SRLFrame {
	frames := make([]asrl.SRLFrame, 0, len(verbs))
	for idx, verb := range verbs {
		lemmaValue := resolver.Lemma(verb.Verb)
		if !f.KeepVerb(lemmaValue) {
			continue
		}
		roles := make([]asrl.RoleArg, 0, len(f.roles))
		for _, role := range f.roles {
			text, ok := verb.Roles[role]
			if !ok || text == "" {
				text = f.noneWord
			}
			roles = append(roles, asrl.RoleArg{Role: role, Text: text})
		}
		frames = append(frames, asrl.SRLFrame{
			VerbIdx: idx,
			Verb:    verb.Verb,
			Lemma:   lemmaValue,
			Roles:   roles,
		})
	}
	return frames
}

// AnnotHeader returns the column layout of the filtered annotation file:
// identifier columns followed by one column per allow-listed role.
func (f *Filter) AnnotHeader() []string {
	header := []string{"vid_seg", "verb_idx", "verb", "lemma"}
	return append(header, f.roles...)
}

// AnnotRows renders the filtered, role-limited annotation rows for every
// record, one row per retained verb occurrence.
func (f *Filter) AnnotRows(records []sources.Record, resolver *lemma.Resolver) [][]string {
	rows := [][]string{f.AnnotHeader()}
	for _, record := range records {
		id := record.ID()
		for _, frame := range f.Apply(record.Verbs, resolver) {
			row := make([]string, 0, 4+len(frame.Roles))
			row = append(row, id, strconv.Itoa(frame.VerbIdx), frame.Verb, frame.Lemma)
			for _, role := range frame.Roles {
				row = append(row, role.Text)
			}
			rows = append(rows, row)
		}
	}
	return rows
}
