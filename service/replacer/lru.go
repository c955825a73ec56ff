package replacer

// lru evicts the least recently referenced page; a hit moves the page to
// the most recently used end.
type lru struct {
	*frames
}

func (l *lru) Policy() string {
	return LRU
}

func (l *lru) Access(page int) (bool, int, bool) {
	if elem, ok := l.lookup(page); ok {
		l.order.MoveToBack(elem)
		return false, 0, false
	}
	evicted, hasEvicted := l.admit(page)
	return true, evicted, hasEvicted
}
