package diagram

// IDAllocator hands out node ids. Ids only ever grow: claiming an explicit id
// moves the generator past it so later allocations cannot collide.
// The zero value starts at 1.
type IDAllocator struct {
	next int
}

// NewIDAllocator returns an allocator whose first id is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: 1}
}

// Next allocates a fresh id.
func (a *IDAllocator) Next() int {
	if a.next < 1 {
		a.next = 1
	}
	id := a.next
	a.next++
	return id
}

// Claim records an explicitly supplied id.
func (a *IDAllocator) Claim(id int) {
	if id >= a.next {
		a.next = id + 1
	}
}

// Peek returns the id the next call to Next will produce.
func (a *IDAllocator) Peek() int {
	if a.next < 1 {
		return 1
	}
	return a.next
}
