package core

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// QueryError lists every rejected parameter of a request.
type QueryError struct {
	Errs []error
}

func (e *QueryError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}

	return fmt.Sprintf("%s: %s", ErrInvalidQuery, strings.Join(msgs, "; "))
}

func (e *QueryError) Unwrap() []error {
	return append([]error{ErrInvalidQuery}, e.Errs...)
}

// QueryParams is the raw query string of GET /contributions. Values are kept
// as strings so ParseQuery can report every malformed parameter at once.
type QueryParams struct {
	Skip        string   `form:"skip"`
	Limit       string   `form:"limit"`
	OrderBy     string   `form:"order_by"`
	Id          []string `form:"id"`
	Owner       string   `form:"owner"`
	Title       string   `form:"title"`
	Description string   `form:"description"`
	StartBefore string   `form:"startBefore"`
	StartAfter  string   `form:"startAfter"`
	EndBefore   string   `form:"endBefore"`
	EndAfter    string   `form:"endAfter"`
	Match       string   `form:"match"`
}

// ParseQuery validates params and builds the Query to evaluate. On failure it
// returns a *QueryError, which matches ErrInvalidQuery.
func ParseQuery(params QueryParams) (Query, error) {
	query := NewQuery()

	var errs []error

	var err error

	query.Skip, err = parseBound("skip", params.Skip, DefaultSkip)
	if err != nil {
		errs = append(errs, err)
	}

	query.Limit, err = parseBound("limit", params.Limit, DefaultLimit)
	if err != nil {
		errs = append(errs, err)
	}

	if params.OrderBy != "" {
		query.OrderBy = SortKey(params.OrderBy)
		if !query.OrderBy.Valid() {
			errs = append(errs, fmt.Errorf("order_by must be one of %s", strings.Join(sortKeyNames(), ", ")))
		}
	}

	if params.Match != "" {
		query.Match = MatchMode(params.Match)
		if !query.Match.Valid() {
			errs = append(errs, errors.New("match must be one of any, all"))
		}
	}

	for _, raw := range params.Id {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("id %q is not an integer", raw))
			continue
		}

		query.Filters.Ids = append(query.Filters.Ids, id)
	}

	query.Filters.Title, err = compilePattern("title", params.Title)
	if err != nil {
		errs = append(errs, err)
	}

	query.Filters.Description, err = compilePattern("description", params.Description)
	if err != nil {
		errs = append(errs, err)
	}

	query.Filters.Owner, err = compilePattern("owner", params.Owner)
	if err != nil {
		errs = append(errs, err)
	}

	query.Filters.StartBefore = params.StartBefore
	query.Filters.StartAfter = params.StartAfter
	query.Filters.EndBefore = params.EndBefore
	query.Filters.EndAfter = params.EndAfter

	if len(errs) > 0 {
		return Query{}, &QueryError{Errs: errs}
	}

	return query, nil
}

func parseBound(name string, raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback, fmt.Errorf("%s %q is not an integer", name, raw)
	}

	if value < 0 {
		return fallback, fmt.Errorf("%s must not be negative", name)
	}

	return value, nil
}

// compilePattern keeps search semantics: the value is a case-insensitive
// regular expression matched anywhere in the field.
func compilePattern(name string, raw string) (*regexp.Regexp, error) {
	if raw == "" {
		return nil, nil //nolint:nilnil
	}

	re, err := regexp.Compile("(?i)" + raw)
	if err != nil {
		return nil, fmt.Errorf("%s is not a valid pattern: %w", name, err)
	}

	return re, nil
}

// Validate checks a Query built without ParseQuery before it is evaluated.
func (q Query) Validate() error {
	var errs []error

	if q.Skip < 0 {
		errs = append(errs, errors.New("skip must not be negative"))
	}

	if q.Limit < 0 {
		errs = append(errs, errors.New("limit must not be negative"))
	}

	if !q.OrderBy.Valid() {
		errs = append(errs, fmt.Errorf("order_by must be one of %s", strings.Join(sortKeyNames(), ", ")))
	}

	if !q.Match.Valid() {
		errs = append(errs, errors.New("match must be one of any, all"))
	}

	if len(errs) > 0 {
		return &QueryError{Errs: errs}
	}

	return nil
}

func (m MatchMode) Valid() bool {
	return m == MatchAll || m == MatchAny
}

var sortKeys = []SortKey{SortById, SortByTitle, SortByDescription, SortByStartTime, SortByEndTime, SortByOwner}

func (k SortKey) Valid() bool {
	for _, key := range sortKeys {
		if key == k {
			return true
		}
	}

	return false
}

func sortKeyNames() []string {
	names := make([]string, len(sortKeys))
	for i, key := range sortKeys {
		names[i] = string(key)
	}

	return names
}
