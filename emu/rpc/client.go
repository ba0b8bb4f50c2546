package rpc

import (
	"net/rpc"
	"strconv"
	"time"

	"github.com/go-faster/errors"

	"nescore/hw/snapshot"
)

type Client struct {
	client *rpc.Client
}

func NewClient(port int) (*Client, error) {
	var (
		client *rpc.Client
		err    error
	)
	const maxretries = 5
	for i := range maxretries {
		client, err = rpc.DialHTTP("tcp", "localhost:"+strconv.Itoa(port))
		if err == nil {
			break
		}
		modRPC.WarnZ("dial tcp failed").Error("err", err).Int("retry", i).End()
		time.Sleep(250 * time.Millisecond)
	}

	if err != nil {
		return nil, errors.Wrap(err, "dial failed max retries")
	}

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	modRPC.DebugZ("closing rpc client").End()
	return c.client.Close()
}

func (c *Client) Pause() error  { return call(c.client, "emu.Pause") }
func (c *Client) Resume() error { return call(c.client, "emu.Resume") }
func (c *Client) Stop() error   { return call(c.client, "emu.Stop") }
func (c *Client) Reset() error  { return call(c.client, "emu.Reset") }

func (c *Client) Frames() (uint64, error) { return request[uint64](c.client, "emu.Frames") }

func (c *Client) RunState() (string, error) { return request[string](c.client, "emu.RunState") }

func (c *Client) State() (*snapshot.NES, error) {
	buf, err := request[[]byte](c.client, "emu.State")
	if err != nil {
		return nil, err
	}
	s := new(snapshot.NES)
	if err := s.UnmarshalJSON(buf); err != nil {
		return nil, err
	}
	return s, nil
}

func call(client *rpc.Client, funcname string) error {
	_, err := request[struct{}](client, funcname)
	return err
}

func request[T any](client *rpc.Client, funcname string) (T, error) {
	var reply T
	if err := client.Call(funcname, &struct{}{}, &reply); err != nil {
		modRPC.ErrorZ("RPC call failed").String("func", funcname).Error("err", err).End()
		return reply, errors.Wrap(err, funcname)
	}
	return reply, nil
}
