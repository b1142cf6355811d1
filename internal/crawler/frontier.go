package crawler

// Frontier holds the pending work for an expansion run: shows awaiting a
// detail fetch and writers awaiting a filmography fetch. Both queues are
// plain FIFO with no capacity limit and no self-deduplication; the driver
// prevents redundant work, not redundant enqueues. Not safe for
// concurrent use.
type Frontier struct {
	shows   []ShowRef
	writers []WriterRef
}

// NewFrontier returns an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{}
}

// PushShow appends a show to the show queue.
func (f *Frontier) PushShow(show ShowRef) {
	f.shows = append(f.shows, show)
}

// PopShow removes and returns the oldest queued show.
func (f *Frontier) PopShow() (ShowRef, bool) {
	if len(f.shows) == 0 {
		return ShowRef{}, false
	}
	show := f.shows[0]
	f.shows = f.shows[1:]
	return show, true
}

// PushWriter appends a writer to the writer queue.
func (f *Frontier) PushWriter(writer WriterRef) {
	f.writers = append(f.writers, writer)
}

// PopWriter removes and returns the oldest queued writer.
func (f *Frontier) PopWriter() (WriterRef, bool) {
	if len(f.writers) == 0 {
		return WriterRef{}, false
	}
	writer := f.writers[0]
	f.writers = f.writers[1:]
	return writer, true
}

// ShowLen reports the number of queued shows.
func (f *Frontier) ShowLen() int { return len(f.shows) }

// WriterLen reports the number of queued writers.
func (f *Frontier) WriterLen() int { return len(f.writers) }

// Empty reports whether both queues are drained.
func (f *Frontier) Empty() bool {
	return len(f.shows) == 0 && len(f.writers) == 0
}
