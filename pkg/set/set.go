package set

import (
	"fmt"
	"sort"
	"strings"
)

// Set is an unordered collection of comparable values.
type Set[T comparable] map[T]struct{}

func SetOf[T comparable](vs ...T) Set[T] {
	s := make(Set[T], len(vs))
	s.Add(vs...)
	return s
}

func (s Set[T]) Add(vs ...T) {
	for _, v := range vs {
		s[v] = struct{}{}
	}
}

func (s Set[T]) Remove(v T) bool {
	_, ok := s[v]
	delete(s, v)
	return ok
}

func (s Set[T]) Contains(v T) bool {
	_, ok := s[v]
	return ok
}

func (s Set[T]) Len() int {
	return len(s)
}

func (s Set[T]) ToSlice() []T {
	slice := make([]T, 0, len(s))
	for k := range s {
		slice = append(slice, k)
	}
	return slice
}

// Sorted returns the members ordered by their string form, for
// deterministic messages and output.
func Sorted[T comparable](s Set[T]) []T {
	slice := s.ToSlice()
	sort.Slice(slice, func(i, j int) bool {
		return fmt.Sprint(slice[i]) < fmt.Sprint(slice[j])
	})
	return slice
}

func (s Set[T]) String() string {
	sb := new(strings.Builder)
	sb.WriteString("{")
	for i, k := range Sorted(s) {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "%v", k)
	}
	sb.WriteString("}")
	return sb.String()
}
