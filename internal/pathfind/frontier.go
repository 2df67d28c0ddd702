package pathfind

import "container/heap"

type entry struct {
	cell     int
	priority int
	h        int
	seq      int
}

type frontier interface {
	push(e entry)
	pop() entry
	peek() entry
	size() int
}

type queue struct {
	items []entry
	head  int
}

func (q *queue) push(e entry) { q.items = append(q.items, e) }

func (q *queue) pop() entry {
	e := q.items[q.head]
	q.head++
	if q.head > 64 && q.head*2 > len(q.items) {
		q.items = append(q.items[:0], q.items[q.head:]...)
		q.head = 0
	}
	return e
}

func (q *queue) peek() entry { return q.items[q.head] }
func (q *queue) size() int   { return len(q.items) - q.head }

type stack struct {
	items []entry
}

func (s *stack) push(e entry) { s.items = append(s.items, e) }

func (s *stack) pop() entry {
	e := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return e
}

func (s *stack) peek() entry { return s.items[len(s.items)-1] }
func (s *stack) size() int   { return len(s.items) }

// minHeap orders by priority, then heuristic, then insertion order.
type minHeap []entry

func (h minHeap) Len() int { return len(h) }

func (h minHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	if h[i].h != h[j].h {
		return h[i].h < h[j].h
	}
	return h[i].seq < h[j].seq
}

func (h minHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)   { *h = append(*h, x.(entry)) }

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

type priority struct {
	h minHeap
}

func (p *priority) push(e entry) { heap.Push(&p.h, e) }
func (p *priority) pop() entry   { return heap.Pop(&p.h).(entry) }
func (p *priority) peek() entry  { return p.h[0] }
func (p *priority) size() int    { return p.h.Len() }
