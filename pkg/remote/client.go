// Package remote lets a presenter turn the pages of every connected viewer.
// Packets are a one byte id followed by big endian fields.
package remote

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"strings"
	"sync"
)

const (
	DefaultPort = 20000

	nameSize = 64
)

// ErrUnknownPacket is returned for a packet id the reader does not know.
var ErrUnknownPacket = errors.New("remote: unknown packet")

// Presenter to viewer packet IDs
const (
	PacketIDIdentification uint8 = 0x00
	PacketIDPageLeft       uint8 = 0x01
	PacketIDPageRight      uint8 = 0x02
	PacketIDSetPage        uint8 = 0x03
	PacketIDSetProfile     uint8 = 0x04
)

// Viewer to presenter packet IDs
const (
	PacketIDViewerState    uint8 = 0x00
	PacketIDClientMetadata uint8 = 0x01
)

// Client is a viewer connection to a presenter.
type Client struct {
	conn     net.Conn
	writeMu  sync.Mutex
	viewerID uint32
	name     string

	OnIdentified func(viewerID uint32)
	OnPageLeft   func()
	OnPageRight  func()
	OnSetPage    func(page int)
	OnSetProfile func(name string)
}

// Addr adds the default port to address when it has none.
func Addr(address string) string {
	if !strings.Contains(address, ":") {
		return fmt.Sprintf("%s:%d", address, DefaultPort)
	}
	return address
}

// Dial connects to the presenter at address.
func Dial(address string) (*Client, error) {
	conn, err := net.Dial("tcp", Addr(address))
	if err != nil {
		return nil, fmt.Errorf("remote: connect to presenter: %w", err)
	}
	return NewClient(conn), nil
}

// NewClient wraps an established connection.
func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn}
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// ViewerID returns the id assigned by the presenter, 0 before identification.
func (c *Client) ViewerID() uint32 {
	return c.viewerID
}

// SetName sets the name sent with SendClientMetadata.
func (c *Client) SetName(name string) {
	c.name = name
}

func (c *Client) write(packet []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err := c.conn.Write(packet)
	return err
}

// SendClientMetadata sends the viewer name.
func (c *Client) SendClientMetadata() error {
	// Packet structure: id(U8) + name(U8[64])
	packet := make([]byte, 1+nameSize)
	packet[0] = PacketIDClientMetadata
	putString(packet[1:], c.name)
	return c.write(packet)
}

// SendState reports the viewer's book state.
func (c *Client) SendState(s State) error {
	// Packet structure: id(U8) + cursor(F32) + target(U32) + pageCount(U32)
	packet := make([]byte, 1+4*3)
	packet[0] = PacketIDViewerState
	binary.BigEndian.PutUint32(packet[1:], math.Float32bits(s.Cursor))
	binary.BigEndian.PutUint32(packet[5:], uint32(s.Target))
	binary.BigEndian.PutUint32(packet[9:], uint32(s.PageCount))
	return c.write(packet)
}

// State is a viewer's book state as seen by the presenter.
type State struct {
	Cursor    float32
	Target    int
	PageCount int
}

// ProcessPackets reads packets until the connection fails. It returns nil
// when the presenter closes the connection.
func (c *Client) ProcessPackets() error {
	for {
		var packetID uint8
		if err := binary.Read(c.conn, binary.BigEndian, &packetID); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("remote: read packet ID: %w", err)
		}

		var err error
		switch packetID {
		case PacketIDIdentification:
			err = c.handleIdentification()
		case PacketIDPageLeft:
			if c.OnPageLeft != nil {
				c.OnPageLeft()
			}
		case PacketIDPageRight:
			if c.OnPageRight != nil {
				c.OnPageRight()
			}
		case PacketIDSetPage:
			err = c.handleSetPage()
		case PacketIDSetProfile:
			err = c.handleSetProfile()
		default:
			err = fmt.Errorf("%w: %d", ErrUnknownPacket, packetID)
		}
		if err != nil {
			return err
		}
	}
}

func (c *Client) handleIdentification() error {
	var viewerID uint32
	if err := binary.Read(c.conn, binary.BigEndian, &viewerID); err != nil {
		return fmt.Errorf("remote: read viewer ID: %w", err)
	}
	c.viewerID = viewerID
	if c.OnIdentified != nil {
		c.OnIdentified(viewerID)
	}
	return nil
}

func (c *Client) handleSetPage() error {
	var page uint32
	if err := binary.Read(c.conn, binary.BigEndian, &page); err != nil {
		return fmt.Errorf("remote: read page: %w", err)
	}
	if c.OnSetPage != nil {
		c.OnSetPage(int(page))
	}
	return nil
}

func (c *Client) handleSetProfile() error {
	name, err := readString(c.conn)
	if err != nil {
		return fmt.Errorf("remote: read profile: %w", err)
	}
	if c.OnSetProfile != nil {
		c.OnSetProfile(name)
	}
	return nil
}

// putString copies s into a fixed size field, truncating or zero padding.
func putString(dst []byte, s string) {
	b := []byte(s)
	if len(b) > nameSize {
		b = b[:nameSize]
	}
	copy(dst, b)
}

// readString reads a fixed size, zero terminated field.
func readString(r io.Reader) (string, error) {
	buf := make([]byte, nameSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	s := string(buf)
	if idx := strings.IndexByte(s, 0); idx >= 0 {
		s = s[:idx]
	}
	return s, nil
}
