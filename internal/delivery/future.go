package delivery

import "context"

// PageFuture is the pending result of Service.Page. It completes exactly
// once with a page, a not-found outcome, or a *FetchError.
type PageFuture struct {
	done  chan struct{}
	page  *Page
	found bool
	err   error
}

func newPageFuture() *PageFuture {
	return &PageFuture{done: make(chan struct{})}
}

func (f *PageFuture) complete(page *Page, found bool, err error) {
	f.page = page
	f.found = found
	f.err = err
	close(f.done)
}

// Done is closed once the fetch has completed.
func (f *PageFuture) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the fetch completes or ctx is done. A ctx error only
// abandons the wait; the fetch itself keeps running.
func (f *PageFuture) Await(ctx context.Context) (*Page, bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-f.done:
		return f.page, f.found, f.err
	default:
	}
	select {
	case <-f.done:
		return f.page, f.found, f.err
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// Result blocks until the fetch completes.
func (f *PageFuture) Result() (*Page, bool, error) {
	<-f.done
	return f.page, f.found, f.err
}
