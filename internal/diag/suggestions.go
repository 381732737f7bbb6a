package diag

// suggestionTable maps each borrow-error code to its fixed suggestion text
// (spec.md §4.7: "one or more suggestions selected from a fixed table
// keyed by error kind").
var suggestionTable = map[Code][]string{
	BorrowMultipleMutable: {
		"only one mutable borrow of a place may be live at a time",
		"end the first mutable borrow before starting a new one",
	},
	BorrowSharedMutableConflict: {
		"a shared borrow is live here; a mutable borrow or write cannot overlap it",
		"move the conflicting access after the shared borrow's last use",
	},
	BorrowReassignWhileBorrowed: {
		"this place is borrowed; reassigning or dropping it invalidates the borrow",
		"reassign or drop the place after the borrow's last use",
	},
	BorrowMoveWhileBorrowed: {
		"this place is borrowed; moving it would invalidate the borrow",
		"copy instead of moving, or move after the borrow's last use",
	},
	BorrowUseAfterMove: {
		"this place was moved earlier and no longer has a value",
		"reassign the place before using it again",
	},
}

// SuggestionsFor returns the fixed suggestions for code, or nil.
func SuggestionsFor(code Code) []string {
	return suggestionTable[code]
}

// WithDefaultSuggestions appends every fixed suggestion for d.Code.
func (d Diagnostic) WithDefaultSuggestions() Diagnostic {
	for _, s := range SuggestionsFor(d.Code) {
		d = d.WithSuggestion(s)
	}
	return d
}
