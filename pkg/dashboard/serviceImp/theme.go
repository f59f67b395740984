package serviceImp

import (
	"sort"
	"strings"
)

const darkClass = "dark"

// DocumentRoot holds the class list rendered on the page's root element.
type DocumentRoot struct{ classes map[string]struct{} }

func NewDocumentRoot(base ...string) *DocumentRoot {
	r := &DocumentRoot{classes: map[string]struct{}{}}
	for _, c := range base {
		r.classes[c] = struct{}{}
	}
	return r
}

func (r *DocumentRoot) Has(class string) bool {
	_, ok := r.classes[class]
	return ok
}

// Class renders the class attribute, sorted for stable output.
func (r *DocumentRoot) Class() string {
	out := make([]string, 0, len(r.classes))
	for c := range r.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return strings.Join(out, " ")
}

// ApplyTheme sets or clears the dark class to match dark. Repeating a call
// with the same flag leaves the root unchanged.
func ApplyTheme(root *DocumentRoot, dark bool) {
	if dark {
		root.classes[darkClass] = struct{}{}
		return
	}
	delete(root.classes, darkClass)
}
