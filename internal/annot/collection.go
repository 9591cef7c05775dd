package annot

import (
	"fmt"
	"regexp"
)

// Collection is an insertion-ordered list of annotations belonging to one
// document.
type Collection []*Annotation

// Filter returns the sub-sequence of annotations whose namespace equals ns,
// preserving order. The returned collection shares annotation pointers with
// the receiver; it is a view, not a copy.
func (c Collection) Filter(ns string) Collection {
	var out Collection
	for _, a := range c {
		if a.Namespace == ns {
			out = append(out, a)
		}
	}
	return out
}

// Search returns annotations whose namespace matches the regular
// expression pattern, preserving order and sharing pointers.
func (c Collection) Search(pattern string) (Collection, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("annot: search: bad pattern %q: %w", pattern, err)
	}
	var out Collection
	for _, a := range c {
		if re.MatchString(a.Namespace) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Namespaces returns the distinct namespace ids present, in first-seen
// order.
func (c Collection) Namespaces() []string {
	seen := make(map[string]struct{}, len(c))
	var out []string
	for _, a := range c {
		if _, ok := seen[a.Namespace]; ok {
			continue
		}
		seen[a.Namespace] = struct{}{}
		out = append(out, a.Namespace)
	}
	return out
}

// Observations returns the total observation count across the collection.
func (c Collection) Observations() int {
	n := 0
	for _, a := range c {
		n += len(a.Data)
	}
	return n
}
