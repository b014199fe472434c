// Package inventory picks one authoritative phoneme inventory per language
// out of several, possibly disagreeing, catalogue sources.
package inventory

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/botirk38/langsim/types"
)

// SourceSize describes a discarded source without exposing its contents.
type SourceSize struct {
	Source string
	Size   int
}

// Resolution records how an inventory was chosen.
type Resolution struct {
	Lang      string
	Chosen    string
	ByTrump   bool // chosen through the trump ranking rather than the fallback
	Discarded []SourceSize
}

// Resolver resolves inventories using a trump ranking, falling back to the
// lexicographically smallest source name when no ranking applies.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a resolver. A nil logger disables logging.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger}
}

// Resolve returns the inventory of lang.
//
// With no sources it returns an empty set and types.ErrNoInventory. A single
// source is returned as is. With several sources the highest-ranked source
// present in ranking wins; without a usable ranking the smallest source name
// wins.
func (r *Resolver) Resolve(lang string, sources map[string]types.PhonemeSet, ranking []string) (types.PhonemeSet, Resolution, error) {
	res := Resolution{Lang: lang}

	switch len(sources) {
	case 0:
		return types.PhonemeSet{}, res, fmt.Errorf("%s: %w", lang, types.ErrNoInventory)
	case 1:
		for name, set := range sources {
			res.Chosen = name
			r.logger.Debug("only source", zap.String("lang", lang), zap.String("source", name))
			return set, res, nil
		}
	}

	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range ranking {
		if _, ok := sources[name]; ok {
			res.Chosen = name
			res.ByTrump = true
			break
		}
	}

	if !res.ByTrump {
		res.Chosen = names[0]
		r.logger.Debug("no trump ranking, taking smallest source name",
			zap.String("lang", lang),
			zap.String("source", res.Chosen),
			zap.Strings("sources", names),
		)
	}

	res.Discarded = discarded(res.Chosen, names, ranking, sources)
	if res.ByTrump {
		fields := []zap.Field{zap.String("lang", lang), zap.String("source", res.Chosen)}
		for _, d := range res.Discarded {
			fields = append(fields, zap.Int(d.Source, d.Size))
		}
		r.logger.Debug("selected trump source", fields...)
	}

	return sources[res.Chosen], res, nil
}

// discarded lists the losing sources in ranking order, then by name for
// sources the ranking does not mention.
func discarded(chosen string, names, ranking []string, sources map[string]types.PhonemeSet) []SourceSize {
	out := make([]SourceSize, 0, len(names)-1)
	seen := map[string]bool{chosen: true}
	for _, name := range ranking {
		if set, ok := sources[name]; ok && !seen[name] {
			seen[name] = true
			out = append(out, SourceSize{Source: name, Size: len(set)})
		}
	}
	for _, name := range names {
		if !seen[name] {
			out = append(out, SourceSize{Source: name, Size: len(sources[name])})
		}
	}
	return out
}

// ResolveAll resolves every language in sources. Languages without any
// source are logged and left out of the result.
func (r *Resolver) ResolveAll(sources map[string]map[string]types.PhonemeSet, trumps map[string][]string) map[string]types.PhonemeSet {
	out := make(map[string]types.PhonemeSet, len(sources))
	for lang, langSources := range sources {
		set, _, err := r.Resolve(lang, langSources, trumps[lang])
		if err != nil {
			r.logger.Info("skipping language", zap.String("lang", lang), zap.Error(err))
			continue
		}
		out[lang] = set
	}
	return out
}

// BuildTrumps groups (lang, source, trump) rows into per-language rankings
// ordered by trump value, ties broken by source name.
func BuildTrumps(rows []types.SourceRank) map[string][]string {
	grouped := make(map[string][]types.SourceRank)
	for _, row := range rows {
		grouped[row.Lang] = append(grouped[row.Lang], row)
	}

	out := make(map[string][]string, len(grouped))
	for lang, ranks := range grouped {
		sort.Slice(ranks, func(i, j int) bool {
			if ranks[i].Trump != ranks[j].Trump {
				return ranks[i].Trump < ranks[j].Trump
			}
			return ranks[i].Source < ranks[j].Source
		})
		names := make([]string, len(ranks))
		for i, rank := range ranks {
			names[i] = rank.Source
		}
		out[lang] = names
	}
	return out
}
