package core

import (
	"cmp"
	"regexp"
	"slices"
)

type MatchMode string

const (
	MatchAll MatchMode = "all"
	MatchAny MatchMode = "any"
)

type SortKey string

const (
	SortById          SortKey = "id"
	SortByTitle       SortKey = "title"
	SortByDescription SortKey = "description"
	SortByStartTime   SortKey = "startTime"
	SortByEndTime     SortKey = "endTime"
	SortByOwner       SortKey = "owner"
)

const (
	DefaultSkip  = 0
	DefaultLimit = 30
)

// Filters holds the optional predicates of a query. A nil pattern, an empty
// time bound or an empty id list means the field was not supplied.
type Filters struct {
	Ids         []int64
	Title       *regexp.Regexp
	Description *regexp.Regexp
	Owner       *regexp.Regexp
	StartBefore string
	StartAfter  string
	EndBefore   string
	EndAfter    string
}

type Query struct {
	Filters Filters
	Match   MatchMode
	OrderBy SortKey
	Skip    int
	Limit   int
}

// NewQuery returns a query with the default match mode, ordering and paging.
func NewQuery() Query {
	return Query{
		Match:   MatchAll,
		OrderBy: SortById,
		Skip:    DefaultSkip,
		Limit:   DefaultLimit,
	}
}

type idSet map[int64]struct{}

type fieldFilter struct {
	name     string
	supplied bool
	matches  func(c Contribution) bool
}

func (f Filters) fields() []fieldFilter {
	ids := make(idSet, len(f.Ids))
	for _, id := range f.Ids {
		ids[id] = struct{}{}
	}

	return []fieldFilter{
		{name: "id", supplied: len(f.Ids) > 0, matches: func(c Contribution) bool {
			_, ok := ids[c.Id]
			return ok
		}},
		{name: "title", supplied: f.Title != nil, matches: func(c Contribution) bool {
			return f.Title.MatchString(c.Title)
		}},
		{name: "description", supplied: f.Description != nil, matches: func(c Contribution) bool {
			return f.Description.MatchString(c.Description)
		}},
		{name: "owner", supplied: f.Owner != nil, matches: func(c Contribution) bool {
			return f.Owner.MatchString(c.Owner)
		}},
		{name: "startBefore", supplied: f.StartBefore != "", matches: func(c Contribution) bool {
			return c.StartTime < f.StartBefore
		}},
		{name: "startAfter", supplied: f.StartAfter != "", matches: func(c Contribution) bool {
			return c.StartTime > f.StartAfter
		}},
		{name: "endBefore", supplied: f.EndBefore != "", matches: func(c Contribution) bool {
			return c.EndTime < f.EndBefore
		}},
		{name: "endAfter", supplied: f.EndAfter != "", matches: func(c Contribution) bool {
			return c.EndTime > f.EndAfter
		}},
	}
}

// Supplied returns the names of the filter fields present in f.
func (f Filters) Supplied() []string {
	var names []string

	for _, field := range f.fields() {
		if field.supplied {
			names = append(names, field.name)
		}
	}

	return names
}

// matchingSets computes the id set of every filter field. An unsupplied field
// contributes every id under MatchAll and no id under MatchAny, so the
// combination step can always intersect or union all eight sets.
func matchingSets(records []Contribution, filters Filters, match MatchMode) map[string]idSet {
	var unsupplied idSet

	switch match {
	case MatchAny:
		unsupplied = idSet{}
	case MatchAll:
		unsupplied = make(idSet, len(records))
		for _, c := range records {
			unsupplied[c.Id] = struct{}{}
		}
	}

	sets := make(map[string]idSet, 8)

	for _, field := range filters.fields() {
		if !field.supplied {
			sets[field.name] = unsupplied
			continue
		}

		set := idSet{}

		for _, c := range records {
			if field.matches(c) {
				set[c.Id] = struct{}{}
			}
		}

		sets[field.name] = set
	}

	return sets
}

func combine(sets map[string]idSet, match MatchMode) idSet {
	result := idSet{}

	switch match {
	case MatchAny:
		for _, set := range sets {
			for id := range set {
				result[id] = struct{}{}
			}
		}
	case MatchAll:
		intersect(sets, result)
	}

	return result
}

func intersect(sets map[string]idSet, result idSet) {
	var smallest idSet
	for _, set := range sets {
		if smallest == nil || len(set) < len(smallest) {
			smallest = set
		}
	}

next:
	for id := range smallest {
		for _, set := range sets {
			if _, ok := set[id]; !ok {
				continue next
			}
		}

		result[id] = struct{}{}
	}
}

func compareBy(key SortKey) func(a, b Contribution) int {
	switch key {
	case SortByTitle:
		return func(a, b Contribution) int { return cmp.Compare(a.Title, b.Title) }
	case SortByDescription:
		return func(a, b Contribution) int { return cmp.Compare(a.Description, b.Description) }
	case SortByStartTime:
		return func(a, b Contribution) int { return cmp.Compare(a.StartTime, b.StartTime) }
	case SortByEndTime:
		return func(a, b Contribution) int { return cmp.Compare(a.EndTime, b.EndTime) }
	case SortByOwner:
		return func(a, b Contribution) int { return cmp.Compare(a.Owner, b.Owner) }
	case SortById:
		return func(a, b Contribution) int { return cmp.Compare(a.Id, b.Id) }
	default:
		return func(Contribution, Contribution) int { return 0 }
	}
}

// Evaluate filters, sorts and paginates records. It does not modify records
// and is safe to call concurrently on the same snapshot. The query must pass
// Validate: an unknown match mode matches nothing and an unknown sort key
// keeps insertion order.
func Evaluate(records []Contribution, query Query) *Page {
	matched := combine(matchingSets(records, query.Filters, query.Match), query.Match)

	results := make([]Contribution, 0, len(matched))
	for _, c := range records {
		if _, ok := matched[c.Id]; ok {
			results = append(results, c)
		}
	}

	slices.SortStableFunc(results, compareBy(query.OrderBy))

	return paginate(results, query.Skip, query.Limit)
}

func paginate(results []Contribution, skip int, limit int) *Page {
	total := len(results)

	lo := min(max(skip, 0), total)

	hi := total
	if limit < total-lo {
		hi = lo + max(limit, 0)
	}

	page := make([]Contribution, 0, hi-lo)
	page = append(page, results[lo:hi]...)

	return &Page{
		Contributions: page,
		Total:         total,
		Skip:          skip,
		Limit:         limit,
	}
}
