package bus

import (
	"fmt"

	"github.com/agrodyn/fieldsim/internal/logging"
)

// Handler receives messages delivered during a flush.
type Handler func(Message)

type subscriber struct {
	id      string
	handler Handler
}

// Channel is the topic pub/sub queue. Publish enqueues without delivering;
// Flush drains the queue FIFO and invokes every handler registered for the
// message's topic, in registration order. Messages published by a handler
// during a flush are held for the next flush.
type Channel struct {
	subscribers map[string][]subscriber
	queue       []Message
	flushing    bool
	deferred    []Message
	log         *logging.Logger
}

// NewChannel creates an empty channel.
func NewChannel() *Channel {
	return &Channel{
		subscribers: make(map[string][]subscriber),
		log:         logging.New("bus"),
	}
}

// Publish enqueues a message for the next flush. It never blocks and never
// fails; publishes made while a flush is in progress land in the following
// flush to keep a single pass bounded.
func (c *Channel) Publish(msg Message) {
	if c.flushing {
		c.deferred = append(c.deferred, msg)
		return
	}
	c.queue = append(c.queue, msg)
}

// Subscribe registers a handler for a topic under a subscriber ID.
// Registering the same ID for the same topic again is a no-op.
func (c *Channel) Subscribe(topic, id string, handler Handler) {
	for _, s := range c.subscribers[topic] {
		if s.id == id {
			return
		}
	}
	c.subscribers[topic] = append(c.subscribers[topic], subscriber{id: id, handler: handler})
}

// Unsubscribe removes a subscriber from a topic.
func (c *Channel) Unsubscribe(topic, id string) {
	subs := c.subscribers[topic]
	for i, s := range subs {
		if s.id == id {
			c.subscribers[topic] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// Flush delivers every queued message. A panicking handler is recovered
// and logged; delivery continues to the remaining handlers and messages.
func (c *Channel) Flush() {
	pending := c.queue
	c.queue = nil

	c.flushing = true
	for _, msg := range pending {
		for _, sub := range c.subscribers[msg.Topic] {
			c.deliver(msg, sub)
		}
	}
	c.flushing = false

	c.queue = append(c.queue, c.deferred...)
	c.deferred = nil
}

func (c *Channel) deliver(msg Message, sub subscriber) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("handler_panic", map[string]interface{}{
				"topic":      msg.Topic,
				"subscriber": sub.id,
			}, fmt.Errorf("%v", r))
		}
	}()
	sub.handler(msg)
}

// Pending returns the number of messages waiting for the next flush.
func (c *Channel) Pending() int {
	return len(c.queue)
}

// Clear drops all subscribers and queued messages.
func (c *Channel) Clear() {
	c.subscribers = make(map[string][]subscriber)
	c.queue = nil
	c.deferred = nil
}
