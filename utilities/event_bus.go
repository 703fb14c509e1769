package utilities

import "sync"

// Event names published on the bus.
const (
	EventResponseCompleted = "response_completed"
)

type EventHandler func(interface{})

type EventBus struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
	wg       sync.WaitGroup
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(event string, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers[event] = append(eb.handlers[event], handler)
}

// Publish runs every handler of event in its own goroutine.
func (eb *EventBus) Publish(event string, data interface{}) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, handler := range eb.handlers[event] {
		eb.wg.Add(1)
		go func(h EventHandler) {
			defer eb.wg.Done()
			h(data)
		}(handler)
	}
}

// Wait blocks until every handler started so far has returned.
func (eb *EventBus) Wait() {
	eb.wg.Wait()
}
