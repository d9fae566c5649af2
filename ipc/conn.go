package ipc

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"net"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/zurutech/dicey-go/errdefs"
	"github.com/zurutech/dicey-go/message"
)

// maxFrameSize bounds a single length-prefixed packet on the stream.
const maxFrameSize = 16 << 20

// packetConn frames dicey packets over a stream transport. Packets travel
// as a little-endian u32 length followed by the packet bytes.
type packetConn struct {
	nc net.Conn

	recvCh <-chan message.Packet
	sendCh chan<- message.Packet

	ctx    context.Context
	cancel context.CancelCauseFunc

	// sendMu orders sends against the close of sendCh
	sendMu     sync.RWMutex
	sendClosed bool

	eg   *errgroup.Group
	once sync.Once
}

func newPacketConn(nc net.Conn) *packetConn {
	recvCh := make(chan message.Packet, 100)
	sendCh := make(chan message.Packet, 100)

	ctx, cancel := context.WithCancelCause(context.Background())

	// The read side may only unblock when the transport closes, so the
	// goroutine lives until then. The length prefix keeps the stream
	// aligned across a frame whose payload fails to decode, so those are
	// skipped; a broken header is fatal.
	go func() {
		defer close(recvCh)

		rd := bufio.NewReader(nc)
		for {
			body, err := readFrameBody(rd)
			if err != nil {
				if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
					cancel(errdefs.MapIO(err))
				} else {
					cancel(errors.Wrap(errdefs.ErrBrokenPipe, "connection closed"))
				}
				return
			}

			pkt, err := message.Load(body)
			if err != nil {
				logrus.WithError(err).Debug("dropping undecodable packet")
				continue
			}

			select {
			case recvCh <- pkt:
			case <-ctx.Done():
				return
			}
		}
	}()

	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() error {
		for pkt := range sendCh {
			if err := writeFrame(nc, pkt); err != nil {
				return errdefs.MapIO(err)
			}
		}
		return nil
	})

	return &packetConn{
		nc:     nc,
		recvCh: recvCh,
		sendCh: sendCh,
		ctx:    ctx,
		cancel: cancel,
		eg:     eg,
	}
}

func (c *packetConn) SendMsg(pkt message.Packet) error {
	c.sendMu.RLock()
	defer c.sendMu.RUnlock()

	if c.sendClosed {
		return errors.Wrap(errdefs.ErrBrokenPipe, "connection closed")
	}

	select {
	case <-c.ctx.Done():
		return context.Cause(c.ctx)
	default:
	}

	select {
	case c.sendCh <- pkt:
		return nil
	default:
		return errors.Wrap(errdefs.ErrAgain, "send queue full")
	}
}

func (c *packetConn) RecvMsg(ctx context.Context) (message.Packet, error) {
	select {
	case pkt, ok := <-c.recvCh:
		if !ok {
			return nil, context.Cause(c.ctx)
		}
		return pkt, nil
	case <-ctx.Done():
		return nil, errdefs.MapIO(context.Cause(ctx))
	case <-c.ctx.Done():
		return nil, context.Cause(c.ctx)
	}
}

func (c *packetConn) Close() error {
	c.cancel(errors.Wrap(errdefs.ErrBrokenPipe, "connection closed"))

	var err error
	c.once.Do(func() {
		c.sendMu.Lock()
		c.sendClosed = true
		close(c.sendCh)
		c.sendMu.Unlock()

		err = c.eg.Wait()

		if cerr := c.nc.Close(); cerr != nil && err == nil {
			err = errdefs.MapIO(cerr)
		}
	})
	return err
}

func readFrame(rd io.Reader) (message.Packet, error) {
	body, err := readFrameBody(rd)
	if err != nil {
		return nil, err
	}
	return message.Load(body)
}

func readFrameBody(rd io.Reader) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(rd, hdr[:]); err != nil {
		return nil, err
	}

	size := binary.LittleEndian.Uint32(hdr[:])
	if size == 0 || size > maxFrameSize {
		return nil, errors.Wrapf(errdefs.ErrBadMessage, "frame of %d bytes", size)
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(rd, body); err != nil {
		return nil, err
	}
	return body, nil
}

func writeFrame(wr io.Writer, pkt message.Packet) error {
	body, err := pkt.Dump()
	if err != nil {
		return err
	}

	frame := make([]byte, 4, 4+len(body))
	binary.LittleEndian.PutUint32(frame, uint32(len(body)))
	frame = append(frame, body...)

	_, err = wr.Write(frame)
	return err
}
