package remote

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"sort"
	"sync"

	"github.com/leterax/bookroom/internal/logging"
)

// Viewer is a connected viewer as seen by the presenter.
type Viewer struct {
	ID    uint32
	Name  string
	State State
}

type viewerConn struct {
	conn    net.Conn
	writeMu sync.Mutex
	info    Viewer
}

func (v *viewerConn) write(packet []byte) error {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()
	_, err := v.conn.Write(packet)
	return err
}

// Server is the presenter side: it accepts viewers and broadcasts page
// commands to all of them.
type Server struct {
	ln net.Listener

	mu      sync.RWMutex
	viewers map[uint32]*viewerConn
	nextID  uint32
	closed  bool

	OnViewerJoin  func(v Viewer)
	OnViewerLeave func(v Viewer)
	OnViewerState func(v Viewer)

	wg sync.WaitGroup
}

// Listen starts a presenter on address.
func Listen(address string) (*Server, error) {
	ln, err := net.Listen("tcp", Addr(address))
	if err != nil {
		return nil, fmt.Errorf("remote: listen: %w", err)
	}
	return NewServer(ln), nil
}

// NewServer serves viewers accepted from ln. Callbacks must be set before
// Serve is called.
func NewServer(ln net.Listener) *Server {
	return &Server{
		ln:      ln,
		viewers: make(map[uint32]*viewerConn),
	}
}

// Addr returns the listening address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve accepts viewers until the listener is closed.
func (s *Server) Serve() error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("remote: accept: %w", err)
		}
		if v := s.register(conn); v != nil {
			go s.handle(v)
		}
	}
}

// register adds conn to the viewer set. After Close it hangs up instead and
// returns nil, so no connection outlives the server.
func (s *Server) register(conn net.Conn) *viewerConn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		conn.Close()
		return nil
	}
	s.nextID++
	v := &viewerConn{conn: conn, info: Viewer{ID: s.nextID}}
	s.viewers[v.info.ID] = v
	s.wg.Add(1)
	return v
}

func (s *Server) handle(v *viewerConn) {
	defer s.wg.Done()

	// Packet structure: id(U8) + viewerID(U32)
	packet := make([]byte, 1+4)
	packet[0] = PacketIDIdentification
	binary.BigEndian.PutUint32(packet[1:], v.info.ID)
	if err := v.write(packet); err != nil {
		s.drop(v, err)
		return
	}
	logging.Logger().Info("viewer connected", "viewer", v.info.ID, "addr", v.conn.RemoteAddr().String())
	if s.OnViewerJoin != nil {
		s.OnViewerJoin(v.info)
	}

	s.drop(v, s.readViewer(v))
}

func (s *Server) readViewer(v *viewerConn) error {
	for {
		var packetID uint8
		if err := binary.Read(v.conn, binary.BigEndian, &packetID); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("remote: read packet ID: %w", err)
		}

		switch packetID {
		case PacketIDViewerState:
			var raw [3]uint32
			if err := binary.Read(v.conn, binary.BigEndian, &raw); err != nil {
				return fmt.Errorf("remote: read viewer state: %w", err)
			}
			st := State{
				Cursor:    math.Float32frombits(raw[0]),
				Target:    int(raw[1]),
				PageCount: int(raw[2]),
			}
			s.mu.Lock()
			v.info.State = st
			info := v.info
			s.mu.Unlock()
			if s.OnViewerState != nil {
				s.OnViewerState(info)
			}
		case PacketIDClientMetadata:
			name, err := readString(v.conn)
			if err != nil {
				return fmt.Errorf("remote: read viewer name: %w", err)
			}
			s.mu.Lock()
			v.info.Name = name
			s.mu.Unlock()
		default:
			return fmt.Errorf("%w: %d", ErrUnknownPacket, packetID)
		}
	}
}

func (s *Server) drop(v *viewerConn, err error) {
	s.mu.Lock()
	_, present := s.viewers[v.info.ID]
	delete(s.viewers, v.info.ID)
	info := v.info
	s.mu.Unlock()
	v.conn.Close()

	if !present {
		return
	}
	if err != nil {
		logging.Logger().Warn("viewer dropped", "viewer", info.ID, "err", err)
	} else {
		logging.Logger().Info("viewer disconnected", "viewer", info.ID)
	}
	if s.OnViewerLeave != nil {
		s.OnViewerLeave(info)
	}
}

// Viewers returns the connected viewers ordered by id.
func (s *Server) Viewers() []Viewer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Viewer, 0, len(s.viewers))
	for _, v := range s.viewers {
		out = append(out, v.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) broadcast(packet []byte) error {
	s.mu.RLock()
	targets := make([]*viewerConn, 0, len(s.viewers))
	for _, v := range s.viewers {
		targets = append(targets, v)
	}
	s.mu.RUnlock()

	var errs []error
	for _, v := range targets {
		if err := v.write(packet); err != nil {
			errs = append(errs, fmt.Errorf("viewer %d: %w", v.info.ID, err))
			v.conn.Close()
		}
	}
	return errors.Join(errs...)
}

// PageLeft turns every viewer one page back.
func (s *Server) PageLeft() error {
	return s.broadcast([]byte{PacketIDPageLeft})
}

// PageRight turns every viewer one page forward.
func (s *Server) PageRight() error {
	return s.broadcast([]byte{PacketIDPageRight})
}

// SetPage sends every viewer to page n.
func (s *Server) SetPage(n int) error {
	if n < 0 {
		return fmt.Errorf("remote: page %d is negative", n)
	}
	// Packet structure: id(U8) + page(U32)
	packet := make([]byte, 1+4)
	packet[0] = PacketIDSetPage
	binary.BigEndian.PutUint32(packet[1:], uint32(n))
	return s.broadcast(packet)
}

// SetProfile switches every viewer to the named turn profile.
func (s *Server) SetProfile(name string) error {
	// Packet structure: id(U8) + name(U8[64])
	packet := make([]byte, 1+nameSize)
	packet[0] = PacketIDSetProfile
	putString(packet[1:], name)
	return s.broadcast(packet)
}

// Close stops accepting, disconnects every viewer and waits for their
// readers to finish.
func (s *Server) Close() error {
	err := s.ln.Close()
	s.mu.Lock()
	s.closed = true
	for _, v := range s.viewers {
		v.conn.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
	return err
}
