package quiz

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/JonMunkholm/sheetquiz/internal/sheet"
)

// Subjects returns the distinct non-empty subjects found in records,
// sorted with Japanese collation.
func Subjects(records []sheet.Record) []string {
	seen := make(map[string]bool)
	var subs []string
	for _, rec := range records {
		s := SubjectOf(rec)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		subs = append(subs, s)
	}
	SortSubjects(subs)
	return subs
}

// SortSubjects sorts subject names in place with Japanese collation.
func SortSubjects(subs []string) {
	// collate.Collator is not safe for concurrent use
	collate.New(language.Japanese).SortStrings(subs)
}

// CountBySubject returns how many records each subject has.
func CountBySubject(records []sheet.Record) map[string]int {
	counts := make(map[string]int)
	for _, rec := range records {
		if s := SubjectOf(rec); s != "" {
			counts[s]++
		}
	}
	return counts
}
