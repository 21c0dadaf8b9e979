package bsp

// arena holds one lazily resolved slot per source table index.
// A slot is filled on first access and served unchanged afterwards.
// Arenas are only touched while Open runs and are not safe for
// concurrent use.
type arena[T any] struct {
	table  string
	items  []T
	filled []bool
}

func newArena[T any](table string, n int) *arena[T] {
	return &arena[T]{
		table:  table,
		items:  make([]T, n),
		filled: make([]bool, n),
	}
}

// get returns slot i, calling resolve to fill it the first time.
func (a *arena[T]) get(i int, resolve func(int) (T, error)) (T, error) {
	if i < 0 || i >= len(a.items) {
		var zero T
		return zero, &IndexError{Table: a.table, Index: i, Len: len(a.items)}
	}
	if a.filled[i] {
		return a.items[i], nil
	}

	item, err := resolve(i)
	if err != nil {
		var zero T
		return zero, err
	}
	a.items[i] = item
	a.filled[i] = true
	return item, nil
}

// resolved reports how many slots have been filled.
func (a *arena[T]) resolved() int {
	n := 0
	for _, ok := range a.filled {
		if ok {
			n++
		}
	}
	return n
}
