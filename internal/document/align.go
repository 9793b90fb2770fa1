// internal/document/align.go
package document

// Align right-pads the shorter of two language lists with placeholder so
// both have the same length. Order within each list is kept.
func Align[T any](en, fr []T, placeholder T) ([]T, []T) {
	en = nonNil(en)
	fr = nonNil(fr)
	for len(en) < len(fr) {
		en = append(en, placeholder)
	}
	for len(fr) < len(en) {
		fr = append(fr, placeholder)
	}
	return en, fr
}

// Pair is one position of a zipped bilingual list. A nil side means the
// list for that language ended before this position.
type Pair[T any] struct {
	Index int
	En    *T
	Fr    *T
}

// Zip pairs two language lists by position up to the longer length.
func Zip[T any](en, fr []T) []Pair[T] {
	n := max(len(en), len(fr))
	pairs := make([]Pair[T], n)
	for i := 0; i < n; i++ {
		pairs[i].Index = i
		if i < len(en) {
			pairs[i].En = &en[i]
		}
		if i < len(fr) {
			pairs[i].Fr = &fr[i]
		}
	}
	return pairs
}

func nonNil[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
