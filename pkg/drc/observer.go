package drc

// Observer receives the events of a check run. All calls happen on the
// goroutine running Execute.
type Observer interface {
	Started()
	Progress(percent int)
	Status(text string)
	Message(msg Message)
	Finished()
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) Started()        {}
func (NopObserver) Progress(int)    {}
func (NopObserver) Status(string)   {}
func (NopObserver) Message(Message) {}
func (NopObserver) Finished()       {}

// Event is one observer callback in value form.
type Event struct {
	Percent  int
	Status   string
	Message  *Message
	Finished bool
}

// ChannelObserver forwards events to a channel. Sends block, so the
// receiver must keep draining until it sees Finished or Execute returns.
type ChannelObserver struct {
	C chan<- Event
}

// Started is not forwarded; the first Progress event follows immediately.
func (o ChannelObserver) Started() {}

func (o ChannelObserver) Progress(percent int) {
	o.C <- Event{Percent: percent}
}

func (o ChannelObserver) Status(text string) {
	o.C <- Event{Percent: -1, Status: text}
}

func (o ChannelObserver) Message(msg Message) {
	o.C <- Event{Percent: -1, Message: &msg}
}

func (o ChannelObserver) Finished() {
	o.C <- Event{Percent: 100, Finished: true}
}

// progress keeps reported percentages monotonic and within 0..100.
type progress struct {
	obs  Observer
	last int
	sent bool
}

func (p *progress) set(percent int) {
	percent = min(max(percent, p.last), 100)
	if p.sent && percent == p.last {
		return
	}
	p.last, p.sent = percent, true
	p.obs.Progress(percent)
}

// within reports progress of step i of n inside the phase [from, to].
func (p *progress) within(from, to, i, n int) {
	if n <= 0 {
		p.set(to)
		return
	}
	p.set(from + (to-from)*i/n)
}
