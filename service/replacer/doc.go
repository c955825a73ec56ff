// Package replacer simulates demand paging over a fixed number of frames
// with FIFO or LRU page replacement.
package replacer
