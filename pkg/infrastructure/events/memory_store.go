package events

import (
	"sync"

	"github.com/rs/zerolog"
)

// InMemoryEventStore keeps run streams in memory. When maxStreams is
// positive the oldest stream is evicted once that many streams exist.
type InMemoryEventStore struct {
	streams     map[string][]Event
	order       []string
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	maxStreams  int
	logger      zerolog.Logger
}

// NewInMemoryEventStore creates a store retaining at most maxStreams runs (0 keeps all)
func NewInMemoryEventStore(maxStreams int, logger zerolog.Logger) *InMemoryEventStore {
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]EventHandler),
		maxStreams:  maxStreams,
		logger:      logger,
	}
}

var _ EventStore = (*InMemoryEventStore)(nil)

// AppendEvent versions the event within its stream and notifies subscribers
// synchronously, after the store lock is released
func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()

	if _, exists := s.streams[streamID]; !exists {
		s.streams[streamID] = make([]Event, 0)
		s.order = append(s.order, streamID)
		s.evictLocked()
	}

	versioned := BaseEvent{
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: len(s.streams[streamID]) + 1,
	}

	s.streams[streamID] = append(s.streams[streamID], versioned)
	handlers := append([]EventHandler(nil), s.subscribers[versioned.Type()]...)

	s.mutex.Unlock()

	s.notify(handlers, versioned)
	return nil
}

func (s *InMemoryEventStore) evictLocked() {
	if s.maxStreams <= 0 {
		return
	}
	for len(s.order) > s.maxStreams {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.streams, oldest)
	}
}

// ReadEvents returns a stream's events starting at fromVersion (1-based)
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events, exists := s.streams[streamID]
	if !exists {
		return []Event{}, nil
	}

	if fromVersion < 1 {
		fromVersion = 1
	}

	if fromVersion > len(events) {
		return []Event{}, nil
	}

	out := make([]Event, len(events)-fromVersion+1)
	copy(out, events[fromVersion-1:])
	return out, nil
}

// HasStream reports whether the store still retains the stream
func (s *InMemoryEventStore) HasStream(streamID string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	_, exists := s.streams[streamID]
	return exists
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}

	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for eventType, handlers := range s.subscribers {
		kept := make([]EventHandler, 0, len(handlers))
		for _, h := range handlers {
			if h != handler {
				kept = append(kept, h)
			}
		}
		s.subscribers[eventType] = kept
	}

	return nil
}

func (s *InMemoryEventStore) notify(handlers []EventHandler, event Event) {
	for _, handler := range handlers {
		if !handler.CanHandle(event.Type()) {
			continue
		}
		if err := handler.Handle(event); err != nil {
			s.logger.Warn().
				Err(err).
				Str("event", event.Type()).
				Str("stream", event.StreamID()).
				Msg("event handler failed")
		}
	}
}
