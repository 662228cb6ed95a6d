package content

// Families holds items partitioned into the two structural groups. Order
// within each list is generation order and becomes the visible numbering.
type Families struct {
	Selection []Item
	Open      []Item
}

// Len returns the total number of items across both families.
func (f Families) Len() int { return len(f.Selection) + len(f.Open) }

// Combined returns Selection followed by Open. This concatenation order
// defines the index space used by validators.
func (f Families) Combined() []Item {
	out := make([]Item, 0, f.Len())
	out = append(out, f.Selection...)
	return append(out, f.Open...)
}

// Classify partitions items into selection-style and open items. An item is
// a selection item iff its type is single_choice or multiple_choice; every
// other type, recognized or not, is open. Item shapes are not inspected.
func Classify(items []Item) Families {
	var f Families
	for _, it := range items {
		if FamilyOf(it.Type) == FamilySelection {
			f.Selection = append(f.Selection, it)
		} else {
			f.Open = append(f.Open, it)
		}
	}
	return f
}

// Append adds another classified batch after the existing items of each
// family. Backfilled items are never interleaved with earlier ones.
func (f Families) Append(more Families) Families {
	return Families{
		Selection: append(append([]Item(nil), f.Selection...), more.Selection...),
		Open:      append(append([]Item(nil), f.Open...), more.Open...),
	}
}
