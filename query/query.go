// Package query remembers search queries and suggests them back while typing.
package query

import (
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/maboroshi-cli/maboroshi/filesystem"
	"github.com/maboroshi-cli/maboroshi/key"
	"github.com/maboroshi-cli/maboroshi/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

type record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

var (
	mu     sync.Mutex
	cacher = gache.New[map[string]*record](
		&gache.Options{
			Path:       where.Queries(),
			FileSystem: &filesystem.GacheFs{},
		},
	)
	// suggestions memoizes fuzzy matches per input until the next Remember
	suggestions = make(map[string][]string)
)

func load() map[string]*record {
	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		return make(map[string]*record)
	}
	return cached
}

// Remember records q or raises its rank by weight.
func Remember(q string, weight int) error {
	q = sanitize(q)
	if q == "" {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	records := load()
	if r, ok := records[q]; ok {
		r.Rank += weight
	} else {
		records[q] = &record{Rank: weight, Query: q}
	}

	suggestions = make(map[string][]string)
	return cacher.Set(records)
}

// Suggest returns the best remembered completion for q, if any.
func Suggest(q string) mo.Option[string] {
	all := SuggestMany(q)
	for _, s := range all {
		if s != sanitize(q) {
			return mo.Some(s)
		}
	}
	return mo.None[string]()
}

// SuggestMany returns remembered queries fuzzily matching q, highest rank first.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return []string{}
	}

	q = sanitize(q)

	mu.Lock()
	defer mu.Unlock()

	if prev, ok := suggestions[q]; ok {
		return prev
	}

	matches := lo.Filter(lo.Values(load()), func(r *record, _ int) bool {
		return fuzzy.Match(q, r.Query)
	})

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Rank != matches[j].Rank {
			return matches[i].Rank > matches[j].Rank
		}
		return matches[i].Query < matches[j].Query
	})

	result := lo.Map(matches, func(r *record, _ int) string { return r.Query })
	suggestions[q] = result
	return result
}

// Clear forgets every remembered query.
func Clear() error {
	mu.Lock()
	defer mu.Unlock()

	suggestions = make(map[string][]string)
	return cacher.Set(make(map[string]*record))
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
