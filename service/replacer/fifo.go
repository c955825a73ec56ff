package replacer

// fifo evicts the earliest admitted page; hits do not reorder.
type fifo struct {
	*frames
}

func (f *fifo) Policy() string {
	return FIFO
}

func (f *fifo) Access(page int) (bool, int, bool) {
	if _, ok := f.lookup(page); ok {
		return false, 0, false
	}
	evicted, hasEvicted := f.admit(page)
	return true, evicted, hasEvicted
}
