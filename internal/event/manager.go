package event

import (
	"sync"

	"go.uber.org/zap"
)

const defaultBufferSize = 256

type Manager struct {
	mu         sync.RWMutex
	listeners  []*Listener
	bufferSize int
	closed     bool
	wg         sync.WaitGroup
}

type Listener struct {
	eventType Type
	channel   chan interface{}
}

func NewManager(bufferSize int) *Manager {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Manager{bufferSize: bufferSize}
}

// AddEventListener registers a callback for an event type. Callbacks of one
// listener run sequentially in emission order.
func (m *Manager) AddEventListener(eventType Type, callback func(msg interface{})) {
	zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: AddListener")

	listener := &Listener{
		eventType: eventType,
		channel:   make(chan interface{}, m.bufferSize),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		zap.L().With(zap.String("type", string(eventType))).Warn("EventManager: Manager closed, listener ignored")
		return
	}
	m.listeners = append(m.listeners, listener)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for msg := range listener.channel {
			callback(msg)
		}
	}()
}

func (m *Manager) EmitEvent(eventType Type, msg interface{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return
	}
	if len(m.listeners) == 0 {
		zap.L().Debug("No event listeners available")
	}
	for _, listener := range m.listeners {
		if listener.eventType == eventType {
			zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: Emitting event")
			listener.channel <- msg
		}
	}
}

// Close stops accepting events and waits for every queued event to be handled.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	for _, listener := range m.listeners {
		close(listener.channel)
	}
	m.mu.Unlock()

	m.wg.Wait()
}
