package planner

import "container/heap"

// taskQueue is a max-priority queue over tasks. Ties on priority break by
// insertion sequence, so equal-priority tasks come out FIFO.
type queueItem struct {
	priority int
	seq      int
	task     *Task
}

type taskQueue []*queueItem

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority > q[j].priority
	}
	return q[i].seq < q[j].seq
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(*queueItem)) }

func (q *taskQueue) Pop() any {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}

func (q *taskQueue) push(item *queueItem) { heap.Push(q, item) }

func (q *taskQueue) pop() *queueItem {
	if q.Len() == 0 {
		return nil
	}
	return heap.Pop(q).(*queueItem)
}
