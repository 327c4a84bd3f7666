package event

// Queue is the single FIFO event queue owned by the session loop.
// Events produced while dispatching are appended to the tail and are
// never re-sorted, so anything already queued runs first. The engine
// is single-threaded; the queue is not safe for concurrent use.
type Queue struct {
	events []Event
	head   int
}

// NewQueue allocates a queue with the given initial capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{events: make([]Event, 0, capacity)}
}

// Push appends an event to the tail of the queue.
func (q *Queue) Push(e Event) {
	q.events = append(q.events, e)
}

// Pop removes and returns the event at the head of the queue.
func (q *Queue) Pop() (Event, bool) {
	if q.head >= len(q.events) {
		return nil, false
	}
	e := q.events[q.head]
	q.events[q.head] = nil
	q.head++
	if q.head == len(q.events) {
		q.events = q.events[:0]
		q.head = 0
	}
	return e, true
}

// Len reports the number of queued events.
func (q *Queue) Len() int {
	return len(q.events) - q.head
}
