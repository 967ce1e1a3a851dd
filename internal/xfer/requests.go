package xfer

// Request asks the receiver to store the next download in Filename.
type Request struct {
	Filename string
}

// Requests carries download requests from the command dispatcher to the receiver.
// It holds at most one pending request. Arm must only be called from one goroutine.
type Requests struct {
	ch chan Request
}

func NewRequests() *Requests {
	return &Requests{ch: make(chan Request, 1)}
}

// Arm makes filename the pending request, replacing any request not yet taken.
func (r *Requests) Arm(filename string) {
	select {
	case <-r.ch:
	default:
	}
	r.ch <- Request{Filename: filename}
}

// Take removes and returns the pending request, if any.
func (r *Requests) Take() (Request, bool) {
	select {
	case req := <-r.ch:
		return req, true
	default:
		return Request{}, false
	}
}

func (r *Requests) Pending() bool {
	return len(r.ch) > 0
}
