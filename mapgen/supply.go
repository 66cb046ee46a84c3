package mapgen

// Supply is a rotating queue: Next pops the front and re-appends it at the back,
// so every element is returned once before any repeats
type Supply[T any] struct {
	items []T
	head  int
}

// NewSupply takes ownership of items; their order is the draw order
func NewSupply[T any](items []T) *Supply[T] {
	return &Supply[T]{items: items}
}

// Next returns the front element and rotates it to the back
func (s *Supply[T]) Next() (T, error) {
	var zero T
	if len(s.items) == 0 {
		return zero, ErrEmptySupply
	}
	v := s.items[s.head]
	s.head = (s.head + 1) % len(s.items)
	return v, nil
}

func (s *Supply[T]) Len() int {
	return len(s.items)
}

// Pending returns the elements in the order they will be drawn
func (s *Supply[T]) Pending() []T {
	out := make([]T, 0, len(s.items))
	out = append(out, s.items[s.head:]...)
	return append(out, s.items[:s.head]...)
}
