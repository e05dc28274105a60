package dataset

import (
	"sort"
	"strings"

	"icpcli/pkg/contracts/domain"
)

// TokenVocabulary computes the sorted set of distinct comma-separated tokens
// across all non-missing values of a multi-valued column. Tokens are
// whitespace-trimmed; empty tokens are dropped. An absent column yields an
// empty vocabulary.
func TokenVocabulary(ds *Dataset, column string) []string {
	if !ds.HasColumn(column) {
		return []string{}
	}

	seen := make(map[string]struct{})
	for row := range ds.Rows {
		value, ok := ds.Value(row, column)
		if !ok {
			continue
		}
		for _, token := range strings.Split(value, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			seen[token] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// ValueVocabulary computes the sorted set of distinct non-missing values of
// a single-valued column. An absent column yields an empty vocabulary.
func ValueVocabulary(ds *Dataset, column string) []string {
	if !ds.HasColumn(column) {
		return []string{}
	}

	seen := make(map[string]struct{})
	for row := range ds.Rows {
		value, ok := ds.Value(row, column)
		if !ok {
			continue
		}
		seen[value] = struct{}{}
	}
	return sortedKeys(seen)
}

// Vocabularies derives all filter vocabularies from the raw record set.
func Vocabularies(ds *Dataset) domain.Vocabularies {
	return domain.Vocabularies{
		Roles:      TokenVocabulary(ds, ColCleanedRoles),
		Industries: TokenVocabulary(ds, ColGPTIndustry),
		Locations:  ValueVocabulary(ds, ColLocation),
		States:     ValueVocabulary(ds, ColState),
		Cities:     ValueVocabulary(ds, ColCity),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
