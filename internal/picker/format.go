package picker

import "github.com/skycastapp/skycast/internal/geo"

// DisplayText computes the string shown in the picker's text field.
//
// With a committed selection the text is derived from the item: the emoji
// glyph plus the name when showFlag is set and the item carries one,
// otherwise the bare name. Without a selection the raw search text is shown
// (empty when nothing has been typed).
func DisplayText(sel *geo.Item, searchValue string, showFlag bool) string {
	if sel != nil {
		if showFlag && sel.Emoji != "" {
			return sel.Emoji + " " + sel.Name
		}
		return sel.Name
	}
	return searchValue
}
