package window

import "sync"

// postQueue carries closures from any goroutine onto the loop. Once the loop
// has stopped, posted work is dropped instead of blocking the sender.
type postQueue struct {
	ch   chan func()
	done chan struct{}
	once sync.Once
}

func newPostQueue(size int) *postQueue {
	return &postQueue{ch: make(chan func(), size), done: make(chan struct{})}
}

// post queues fn and reports whether it was accepted. It blocks while the
// queue is full and the loop is still running.
func (q *postQueue) post(fn func()) bool {
	select {
	case <-q.done:
		return false
	default:
	}
	select {
	case q.ch <- fn:
		return true
	case <-q.done:
		return false
	}
}

// drain runs everything queued so far.
func (q *postQueue) drain() {
	for {
		select {
		case fn := <-q.ch:
			fn()
		default:
			return
		}
	}
}

// close stops accepting work and releases blocked senders.
func (q *postQueue) close() {
	q.once.Do(func() { close(q.done) })
}
