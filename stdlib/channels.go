package stdlib

import (
	"sync"

	"github.com/oarkflow/xid"
	"github.com/pkg/errors"

	"vx/value"
)

// Hub owns the message channels scripts create with thread_channel. Channels
// are unbounded FIFO queues addressed by id; values are deep-copied on send
// so sender and receiver never share storage.
type Hub struct {
	mu       sync.Mutex
	channels map[string]*channel
	copy     func(value.Value) value.Value
}

type channel struct {
	mu     sync.Mutex
	ready  *sync.Cond
	queue  []value.Value
	closed bool
}

func NewHub() *Hub {
	return &Hub{channels: map[string]*channel{}, copy: value.Value.Clone}
}

// SetCopier replaces the copy made of every sent value. The interpreter
// installs one that also detaches function references from the sender's
// modules.
func (h *Hub) SetCopier(fn func(value.Value) value.Value) {
	h.mu.Lock()
	h.copy = fn
	h.mu.Unlock()
}

// Open creates a channel and returns its id.
func (h *Hub) Open() string {
	ch := &channel{}
	ch.ready = sync.NewCond(&ch.mu)
	id := "ch_" + xid.New().String()

	h.mu.Lock()
	h.channels[id] = ch
	h.mu.Unlock()
	return id
}

func (h *Hub) get(id string) (*channel, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.channels[id]
	if !ok {
		return nil, errors.Errorf("unknown channel %q", id)
	}
	return ch, nil
}

func (h *Hub) Send(id string, v value.Value) error {
	ch, err := h.get(id)
	if err != nil {
		return err
	}
	h.mu.Lock()
	cp := h.copy
	h.mu.Unlock()
	v = cp(v)

	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.closed {
		return errors.Errorf("send on closed channel %q", id)
	}
	ch.queue = append(ch.queue, v)
	ch.ready.Signal()
	return nil
}

// Recv blocks until a value is queued. Receivers blocked when the channel
// is closed are released with an error.
func (h *Hub) Recv(id string) (value.Value, error) {
	ch, err := h.get(id)
	if err != nil {
		return value.Value{}, err
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	for len(ch.queue) == 0 && !ch.closed {
		ch.ready.Wait()
	}
	if len(ch.queue) == 0 {
		return value.Value{}, errors.Errorf("channel %q closed", id)
	}
	v := ch.queue[0]
	ch.queue = ch.queue[1:]
	return v, nil
}

// Close forgets the channel; later sends and receives on its id fail.
func (h *Hub) Close(id string) error {
	h.mu.Lock()
	ch, ok := h.channels[id]
	delete(h.channels, id)
	h.mu.Unlock()
	if !ok {
		return errors.Errorf("unknown channel %q", id)
	}

	ch.mu.Lock()
	ch.closed = true
	ch.queue = nil
	ch.ready.Broadcast()
	ch.mu.Unlock()
	return nil
}

func (h *Hub) natives() Table {
	return Table{
		"thread_channel": func(args []value.Value) (value.Value, error) {
			if err := arity(args, 0); err != nil {
				return value.Value{}, err
			}
			return value.String(h.Open()), nil
		},
		"thread_send": func(args []value.Value) (value.Value, error) {
			if err := arity(args, 2); err != nil {
				return value.Value{}, err
			}
			id, err := strArg(args, 0)
			if err != nil {
				return value.Value{}, err
			}
			return value.Null(), h.Send(id, args[1])
		},
		"thread_recv": func(args []value.Value) (value.Value, error) {
			if err := arity(args, 1); err != nil {
				return value.Value{}, err
			}
			id, err := strArg(args, 0)
			if err != nil {
				return value.Value{}, err
			}
			return h.Recv(id)
		},
		"thread_close": func(args []value.Value) (value.Value, error) {
			if err := arity(args, 1); err != nil {
				return value.Value{}, err
			}
			id, err := strArg(args, 0)
			if err != nil {
				return value.Value{}, err
			}
			return value.Null(), h.Close(id)
		},
	}
}
