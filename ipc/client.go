package ipc

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/zurutech/dicey-go/errdefs"
	"github.com/zurutech/dicey-go/message"
	"github.com/zurutech/dicey-go/value"
)

const (
	// DefaultTimeout bounds a single request round trip.
	DefaultTimeout = 1000 * time.Millisecond

	// DefaultEventQueueSize is how many undelivered events are buffered
	// before new ones are dropped.
	DefaultEventQueueSize = 32
)

// EventHandler receives server-initiated event messages. Handlers run on
// the client's dispatch goroutine, so they must not block.
type EventHandler func(*message.Message)

// Options tunes a Client. The zero value picks all defaults.
type Options struct {
	// Timeout is the default request timeout; individual requests can
	// override it.
	Timeout time.Duration

	// EventQueueSize sizes the Events channel buffer.
	EventQueueSize int

	// OnEvent, if set, is invoked for every event instead of queueing it
	// on the Events channel.
	OnEvent EventHandler
}

func (o *Options) withDefaults() Options {
	opts := Options{}
	if o != nil {
		opts = *o
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.EventQueueSize <= 0 {
		opts.EventQueueSize = DefaultEventQueueSize
	}
	return opts
}

// Client is a blocking dicey client. It is safe for concurrent use;
// requests from multiple goroutines interleave on the same connection.
type Client struct {
	conn *packetConn
	opts Options

	events chan *message.Message

	mu      sync.Mutex
	seq     uint32
	pending map[uint32]chan *message.Message
	closed  bool

	done chan struct{}
}

// Connect dials addr, performs the Hello handshake and starts the
// dispatch loop. The context bounds the handshake only.
func Connect(ctx context.Context, addr string, opts *Options) (*Client, error) {
	a, err := ParseAddress(addr)
	if err != nil {
		return nil, err
	}
	return ConnectAddress(ctx, a, opts)
}

// ConnectAddress is Connect for a pre-parsed address.
func ConnectAddress(ctx context.Context, addr Address, opts *Options) (*Client, error) {
	nc, err := addr.Dial(ctx)
	if err != nil {
		return nil, err
	}
	return newClient(ctx, nc, opts)
}

// newClient wraps an established transport connection, performing the
// handshake on it.
func newClient(ctx context.Context, nc net.Conn, opts *Options) (*Client, error) {
	c := &Client{
		conn:    newPacketConn(nc),
		opts:    opts.withDefaults(),
		pending: map[uint32]chan *message.Message{},
		done:    make(chan struct{}),

		// client requests use odd seqs; the handshake burns the first one
		seq: 1,
	}
	c.events = make(chan *message.Message, c.opts.EventQueueSize)

	if err := c.handshake(ctx); err != nil {
		_ = c.conn.Close()
		return nil, err
	}

	go c.dispatch()
	return c, nil
}

func (c *Client) handshake(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	hello := &message.Hello{Seq: c.takeSeq(), Version: message.ProtocolVersion}
	if err := c.conn.SendMsg(hello); err != nil {
		return errors.Wrap(err, "sending hello")
	}

	pkt, err := c.conn.RecvMsg(ctx)
	if err != nil {
		return errors.Wrap(err, "waiting for hello")
	}

	reply, ok := pkt.(*message.Hello)
	if !ok {
		return errors.Wrapf(errdefs.ErrBadMessage, "expected hello, got %s", pkt)
	}
	if reply.Version.Major != message.ProtocolVersion.Major {
		return errors.Wrapf(errdefs.ErrInvalidData, "unsupported protocol version %s", reply.Version)
	}

	logrus.WithFields(logrus.Fields{
		"version": reply.Version,
	}).Debug("dicey session established")
	return nil
}

// dispatch routes incoming packets to waiting requests and to the event
// queue until the connection dies.
func (c *Client) dispatch() {
	defer close(c.done)

	for {
		pkt, err := c.conn.RecvMsg(context.Background())
		if err != nil {
			c.failPending()
			return
		}

		switch pkt := pkt.(type) {
		case *message.Message:
			switch pkt.Op {
			case message.OpResponse:
				c.resolve(pkt)
			case message.OpEvent:
				c.deliver(pkt)
			default:
				logrus.WithField("packet", pkt.String()).Warn("unexpected request from server")
			}

		case *message.Bye:
			logrus.WithField("reason", pkt.Reason).Debug("server said goodbye")
			c.failPending()
			return

		default:
			logrus.WithField("packet", pkt.String()).Warn("unexpected packet from server")
		}
	}
}

func (c *Client) resolve(msg *message.Message) {
	c.mu.Lock()
	ch, ok := c.pending[msg.Seq]
	if ok {
		delete(c.pending, msg.Seq)
	}
	c.mu.Unlock()

	if !ok {
		logrus.WithField("seq", msg.Seq).Warn("response with no matching request")
		return
	}
	ch <- msg
}

func (c *Client) deliver(msg *message.Message) {
	if c.opts.OnEvent != nil {
		c.opts.OnEvent(msg)
		return
	}

	select {
	case c.events <- msg:
	default:
		logrus.WithField("event", msg.String()).Warn("event queue full, dropping event")
	}
}

func (c *Client) failPending() {
	c.mu.Lock()
	pending := c.pending
	c.pending = map[uint32]chan *message.Message{}
	c.closed = true
	c.mu.Unlock()

	for _, ch := range pending {
		close(ch)
	}
}

// Events delivers server events when no OnEvent handler is installed.
// The channel stays open across shutdown so queued events can still be
// drained; use Running to notice a dead connection.
func (c *Client) Events() <-chan *message.Message {
	return c.events
}

// Running reports whether the dispatch loop is still alive.
func (c *Client) Running() bool {
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

func (c *Client) takeSeq() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	seq := c.seq
	c.seq += 2
	return seq
}

// do sends msg and blocks for the matching response.
func (c *Client) do(ctx context.Context, msg *message.Message, timeout time.Duration) (*message.Message, error) {
	if timeout <= 0 {
		timeout = c.opts.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan *message.Message, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, errors.WithStack(errdefs.ErrNotConnected)
	}
	msg.Seq = c.seq
	c.seq += 2
	c.pending[msg.Seq] = ch
	c.mu.Unlock()

	if err := c.conn.SendMsg(msg); err != nil {
		c.mu.Lock()
		delete(c.pending, msg.Seq)
		c.mu.Unlock()
		return nil, err
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, errors.Wrap(errdefs.ErrBrokenPipe, "connection lost")
		}
		return resp, nil
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, msg.Seq)
		c.mu.Unlock()
		return nil, errdefs.MapIO(context.Cause(ctx))
	}
}

// result unwraps a response payload, surfacing remote errors.
func result(resp *message.Message) (value.Value, error) {
	if e, err := value.AsError(resp.Value); err == nil {
		return nil, e.Remote()
	}
	return resp.Value, nil
}

// Exec invokes an operation element with the given argument.
func (c *Client) Exec(ctx context.Context, path string, sel value.Selector, arg value.Value) (value.Value, error) {
	msg, err := message.NewBuilder(message.OpExec).
		Path(path).
		Selector(sel.Trait, sel.Elem).
		Value(arg).
		Build()
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, msg, 0)
	if err != nil {
		return nil, err
	}
	return result(resp)
}

// Get reads a property element.
func (c *Client) Get(ctx context.Context, path string, sel value.Selector) (value.Value, error) {
	msg, err := message.NewBuilder(message.OpGet).
		Path(path).
		Selector(sel.Trait, sel.Elem).
		Build()
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, msg, 0)
	if err != nil {
		return nil, err
	}
	return result(resp)
}

// Set writes a property element. The server acknowledges with unit.
func (c *Client) Set(ctx context.Context, path string, sel value.Selector, v value.Value) error {
	msg, err := message.NewBuilder(message.OpSet).
		Path(path).
		Selector(sel.Trait, sel.Elem).
		Value(v).
		Build()
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, msg, 0)
	if err != nil {
		return err
	}

	out, err := result(resp)
	if err != nil {
		return err
	}
	return value.AsUnit(out)
}

// Subscribe registers for a signal element of an object. Events arrive
// through OnEvent or the Events channel.
func (c *Client) Subscribe(ctx context.Context, path string, sel value.Selector) error {
	return c.execEventManager(ctx, EventManagerSubscribeOp, path, sel)
}

// Unsubscribe drops a previous registration.
func (c *Client) Unsubscribe(ctx context.Context, path string, sel value.Selector) error {
	return c.execEventManager(ctx, EventManagerUnsubscribeOp, path, sel)
}

func (c *Client) execEventManager(ctx context.Context, op, path string, sel value.Selector) error {
	if err := message.CheckPath(path); err != nil {
		return err
	}

	out, err := c.Exec(ctx,
		ServerPath,
		value.Selector{Trait: EventManagerTrait, Elem: op},
		value.Tuple{value.Path(path), sel},
	)
	if err != nil {
		return err
	}
	return value.AsUnit(out)
}

// Inspect retrieves the trait layout of an object.
func (c *Client) Inspect(ctx context.Context, path string) (*ObjectInfo, error) {
	out, err := c.Get(ctx, path, value.Selector{
		Trait: IntrospectionTrait,
		Elem:  IntrospectionDataProp,
	})
	if err != nil {
		return nil, err
	}
	return DecodeObjectInfo(path, out)
}

// InspectXML retrieves the XML rendition of an object's layout.
func (c *Client) InspectXML(ctx context.Context, path string) (string, error) {
	out, err := c.Get(ctx, path, value.Selector{
		Trait: IntrospectionTrait,
		Elem:  IntrospectionXMLProp,
	})
	if err != nil {
		return "", err
	}
	return value.AsString(out)
}

// Request starts a custom request against the connection.
func (c *Client) Request(op message.Op) *RequestBuilder {
	return &RequestBuilder{client: c, builder: message.NewBuilder(op), timeout: c.opts.Timeout}
}

// Close says goodbye and tears down the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	alreadyClosed := c.closed
	c.closed = true
	c.mu.Unlock()

	var errs *multierror.Error

	if !alreadyClosed {
		bye := &message.Bye{Seq: c.takeSeq(), Reason: message.ReasonShutdown}
		if err := c.conn.SendMsg(bye); err != nil {
			errs = multierror.Append(errs, errors.Wrap(err, "sending bye"))
		}
	}

	if err := c.conn.Close(); err != nil {
		errs = multierror.Append(errs, err)
	}

	<-c.done
	return errs.ErrorOrNil()
}

// RequestBuilder assembles a one-off request with its own timeout.
type RequestBuilder struct {
	client  *Client
	builder *message.Builder
	timeout time.Duration
}

func (b *RequestBuilder) Path(path string) *RequestBuilder {
	b.builder.Path(path)
	return b
}

func (b *RequestBuilder) Selector(trait, elem string) *RequestBuilder {
	b.builder.Selector(trait, elem)
	return b
}

func (b *RequestBuilder) Value(v value.Value) *RequestBuilder {
	b.builder.Value(v)
	return b
}

func (b *RequestBuilder) Timeout(d time.Duration) *RequestBuilder {
	b.timeout = d
	return b
}

// Submit sends the request and waits for the raw response message.
func (b *RequestBuilder) Submit(ctx context.Context) (*message.Message, error) {
	msg, err := b.builder.Build()
	if err != nil {
		return nil, err
	}
	return b.client.do(ctx, msg, b.timeout)
}
