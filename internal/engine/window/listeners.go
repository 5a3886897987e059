package window

// listeners is an ordered set of callbacks. Cancelling a subscription from
// inside a callback is allowed; the removal takes effect on the next call.
type listeners[T any] struct {
	next    int
	entries []listener[T]
}

type listener[T any] struct {
	id int
	fn T
}

func (l *listeners[T]) add(fn T) (cancel func()) {
	id := l.next
	l.next++
	l.entries = append(l.entries, listener[T]{id: id, fn: fn})
	return func() { l.remove(id) }
}

func (l *listeners[T]) remove(id int) {
	for i, e := range l.entries {
		if e.id == id {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return
		}
	}
}

func (l *listeners[T]) each(call func(T)) {
	for _, e := range l.entries {
		call(e.fn)
	}
}

func (l *listeners[T]) len() int {
	return len(l.entries)
}

func (l *listeners[T]) clear() {
	l.entries = nil
}
