package notify

import "sync"

// subscriberBuffer is the per-subscriber queue length; a full queue drops new messages.
const subscriberBuffer = 16

// Broadcaster delivers notifications to every live subscriber, typically SSE clients.
type Broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Notification
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan Notification)}
}

// Subscribe registers a subscriber. The returned cancel func closes the channel.
func (b *Broadcaster) Subscribe() (<-chan Notification, func()) {
	ch := make(chan Notification, subscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Info broadcasts an info notification.
func (b *Broadcaster) Info(message string) {
	b.publish(newNotification(LevelInfo, message, nil))
}

// Error broadcasts an error notification.
func (b *Broadcaster) Error(message string, err error) {
	b.publish(newNotification(LevelError, message, err))
}

func (b *Broadcaster) publish(n Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

// Len returns the number of live subscribers.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
