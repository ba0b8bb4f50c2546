package rpc

import (
	"net"
	"net/http"
	"net/rpc"
	"strconv"

	"github.com/go-faster/errors"

	"nescore/emu"
	"nescore/hw/snapshot"
)

// Emu is the part of the emulator exposed over RPC.
type Emu interface {
	Pause()
	Resume()
	Stop()
	Reset()
	Frames() uint64
	RunState() emu.RunState
	State() *snapshot.NES
}

type emuProxy struct {
	emu Emu
}

func (ep *emuProxy) Pause(_, _ *struct{}) error  { ep.emu.Pause(); return nil }
func (ep *emuProxy) Resume(_, _ *struct{}) error { ep.emu.Resume(); return nil }
func (ep *emuProxy) Stop(_, _ *struct{}) error   { ep.emu.Stop(); return nil }
func (ep *emuProxy) Reset(_, _ *struct{}) error  { ep.emu.Reset(); return nil }

func (ep *emuProxy) Frames(_ *struct{}, reply *uint64) error {
	*reply = ep.emu.Frames()
	return nil
}

func (ep *emuProxy) RunState(_ *struct{}, reply *string) error {
	*reply = ep.emu.RunState().String()
	return nil
}

// State replies with the JSON-encoded console state. It fails if the
// emulator is running.
func (ep *emuProxy) State(_ *struct{}, reply *[]byte) error {
	if st := ep.emu.RunState(); st == emu.Running {
		return errors.Errorf("can't snapshot a %s emulator", st)
	}
	buf, err := ep.emu.State().MarshalJSON()
	if err != nil {
		return err
	}
	*reply = buf
	return nil
}

func (ep *emuProxy) IsReady(_ *struct{}, reply *bool) error {
	*reply = true
	return nil
}

type Server struct {
	l    net.Listener
	port int
}

// NewServer starts serving RPC requests for e on localhost:port. A zero port
// picks a free one.
func NewServer(port int, e Emu) (*Server, error) {
	srv := rpc.NewServer()
	if err := srv.RegisterName("emu", &emuProxy{emu: e}); err != nil {
		return nil, errors.Wrap(err, "failed to register RPC server")
	}

	mux := http.NewServeMux()
	mux.Handle(rpc.DefaultRPCPath, srv)

	l, err := net.Listen("tcp", "localhost:"+strconv.Itoa(port))
	if err != nil {
		return nil, errors.Wrap(err, "rpc listen")
	}
	port = l.Addr().(*net.TCPAddr).Port

	modRPC.InfoZ("rpc server listening").Int("port", port).End()
	go http.Serve(l, mux)
	return &Server{l: l, port: port}, nil
}

func (s *Server) Port() int { return s.port }

func (s *Server) Close() error {
	return s.l.Close()
}
