package operations

// Event is the interface implemented by all engine events.
type Event interface {
	isEvent()
}

// EventEmitter is the interface for receiving events. Emit is called
// synchronously on the goroutine running the batch.
type EventEmitter interface {
	Emit(event Event)
}

// EmitterFunc adapts a function to EventEmitter.
type EmitterFunc func(event Event)

// Emit calls f(event).
func (f EmitterFunc) Emit(event Event) {
	f(event)
}

// BatchStarted is emitted before the first item of a batch.
type BatchStarted struct {
	Op    Op
	Total int
}

func (BatchStarted) isEvent() {}

// ItemStarted is emitted when work on a target begins.
type ItemStarted struct {
	Op    Op
	Name  string
	Index int
}

func (ItemStarted) isEvent() {}

// ItemComplete is emitted when a target succeeded.
type ItemComplete struct {
	Op   Op
	Name string
}

func (ItemComplete) isEvent() {}

// ItemFailed is emitted when a target failed. Err is enriched with suggestions.
type ItemFailed struct {
	Op   Op
	Name string
	Err  error
}

func (ItemFailed) isEvent() {}

// BatchComplete is emitted after the last item of a batch.
type BatchComplete struct {
	Op     Op
	Result Result
}

func (BatchComplete) isEvent() {}
