package book

// OrderList is the FIFO queue of orders resting at a single PriceLevel.
// Append and Remove are O(1): orders carry their own prev/next pointers,
// so no separate list node is ever allocated.
type OrderList struct {
	head, tail *Order
	count      int
	totalSize  int64
}

func newOrderList() *OrderList {
	return &OrderList{}
}

// Count returns the number of orders resting in the list.
func (l *OrderList) Count() int { return l.count }

// IsEmpty reports whether the list has no resting orders.
func (l *OrderList) IsEmpty() bool { return l.count == 0 }

// TotalSize returns the sum of Size across every resting order.
func (l *OrderList) TotalSize() int64 { return l.totalSize }

// Head returns the order at the front of the queue (earliest arrival),
// or nil if the list is empty.
func (l *OrderList) Head() *Order { return l.head }

// Append adds an order to the back of the queue.
func (l *OrderList) Append(o *Order) {
	o.list = l
	o.prev = l.tail
	o.next = nil

	if l.tail != nil {
		l.tail.next = o
	} else {
		l.head = o
	}
	l.tail = o

	l.count++
	l.totalSize += o.Size
}

// Remove detaches an order from the queue in O(1). It is a programmer
// error to call Remove with an order that does not belong to this list.
func (l *OrderList) Remove(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}

	l.count--
	l.totalSize -= o.Size

	o.prev, o.next, o.list = nil, nil, nil
}

// updateSize changes a resting order's size in place, keeping the
// list's cached TotalSize consistent. o must already belong to l.
func (l *OrderList) updateSize(o *Order, newSize int64) {
	l.totalSize += newSize - o.Size
	o.Size = newSize
}

// PopFront removes and returns the order with the highest time priority,
// or nil if the list is empty.
func (l *OrderList) PopFront() *Order {
	o := l.head
	if o == nil {
		return nil
	}
	l.Remove(o)
	return o
}
