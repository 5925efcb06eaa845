package astar

import "container/heap"

// openSet is a binary heap of node ids ordered by Node.before. Membership is
// tracked on the node itself so lookups stay O(1).
type openSet struct {
	grid    *GridIndex
	items   []NodeID
	nextSeq uint32
}

func (o *openSet) Len() int { return len(o.items) }

func (o *openSet) Less(i, j int) bool {
	return o.grid.nodes[o.items[i]].before(&o.grid.nodes[o.items[j]])
}

func (o *openSet) Swap(i, j int) {
	o.items[i], o.items[j] = o.items[j], o.items[i]
	o.grid.nodes[o.items[i]].heapIndex = i
	o.grid.nodes[o.items[j]].heapIndex = j
}

func (o *openSet) Push(x any) {
	id := x.(NodeID)
	o.grid.nodes[id].heapIndex = len(o.items)
	o.items = append(o.items, id)
}

func (o *openSet) Pop() any {
	old := o.items
	n := len(old)
	id := old[n-1]
	o.items = old[:n-1]
	o.grid.nodes[id].heapIndex = -1
	return id
}

func (o *openSet) insert(id NodeID) {
	node := &o.grid.nodes[id]
	node.state = nodeOpen
	node.seq = o.nextSeq
	o.nextSeq++
	heap.Push(o, id)
}

func (o *openSet) popMin() NodeID {
	id := heap.Pop(o).(NodeID)
	o.grid.nodes[id].state = nodeClosed
	return id
}

func (o *openSet) fix(id NodeID) {
	heap.Fix(o, o.grid.nodes[id].heapIndex)
}

func (o *openSet) contains(id NodeID) bool {
	return o.grid.nodes[id].state == nodeOpen
}
