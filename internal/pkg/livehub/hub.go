package livehub

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"tracking-service/internal/entities"
)

const defaultBuffer = 16

var (
	LiveSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tracking_live_subscribers",
		Help: "Open live tracking subscriptions",
	})

	LiveEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracking_live_events_total",
			Help: "Live events by delivery result",
		},
		[]string{"result"},
	)
)

// Hub живой канал событий по публичному токену доставки.
// Publish никогда не блокируется: подписчик с полным буфером теряет событие.
// mu защищает карту токенов и закрытие каналов, публикации разных токенов
// идут параллельно под RLock.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]*topic
	buffer int
	closed bool
}

// topic подписчики одного токена. mu упорядочивает публикации токена.
type topic struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func New(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}

	return &Hub{
		topics: make(map[string]*topic),
		buffer: buffer,
	}
}

type Subscription struct {
	hub     *Hub
	token   string
	events  chan entities.TrackingEvent
	once    sync.Once
	dropped atomic.Uint64
}

// Events закрывается после Close.
func (s *Subscription) Events() <-chan entities.TrackingEvent {
	return s.events
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Dropped число событий, потерянных из-за переполненного буфера.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

func (h *Hub) Subscribe(token string) *Subscription {
	sub := &Subscription{
		hub:    h,
		token:  token,
		events: make(chan entities.TrackingEvent, h.buffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(sub.events)
		return sub
	}

	t, ok := h.topics[token]
	if !ok {
		t = &topic{subs: make(map[*Subscription]struct{})}
		h.topics[token] = t
	}
	t.subs[sub] = struct{}{}
	LiveSubscribers.Inc()

	return sub
}

// Publish отдаёт событие всем подписчикам токена и возвращает число получивших его.
func (h *Hub) Publish(token string, event entities.TrackingEvent) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	t, ok := h.topics[token]
	if !ok {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	delivered := 0
	for sub := range t.subs {
		select {
		case sub.events <- event:
			delivered++
			LiveEventsTotal.WithLabelValues("delivered").Inc()
		default:
			sub.dropped.Add(1)
			LiveEventsTotal.WithLabelValues("dropped").Inc()
		}
	}
	return delivered
}

func (h *Hub) Subscribers(token string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	t, ok := h.topics[token]
	if !ok {
		return 0
	}
	return len(t.subs)
}

// Close закрывает все подписки, новые подписки сразу закрыты. Нужен при остановке
// сервера: открытые потоки иначе держат Shutdown до таймаута.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for token, t := range h.topics {
		for sub := range t.subs {
			close(sub.events)
			LiveSubscribers.Dec()
		}
		delete(h.topics, token)
	}
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, ok := h.topics[sub.token]
	if !ok {
		return
	}
	if _, ok := t.subs[sub]; !ok {
		return
	}

	delete(t.subs, sub)
	if len(t.subs) == 0 {
		delete(h.topics, sub.token)
	}
	close(sub.events)
	LiveSubscribers.Dec()
}
