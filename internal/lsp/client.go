// Package lsp is a minimal language server client: it spawns the
// server process, frames JSON-RPC over its stdio, and delivers
// incoming traffic to the main loop. Responses are handed out in
// request order regardless of the order the server answered in;
// notifications are delivered as they arrive.
package lsp

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/satwik-kambham/rift/internal/logging"
)

const channelDepth = 32

// Incoming is one message from the server. Responses carry ID, the
// originating request's Method, and Result or Err. Notifications
// carry Method and Params.
type Incoming struct {
	Notification bool
	ID           int
	Method       string
	Result       gjson.Result
	Params       gjson.Result
	Err          *ResponseError
}

type outgoing struct {
	notification bool
	id           int
	method       string
	params       string
}

// Client talks to one language server. Send and receive methods are
// main-loop only; the three transport goroutines own the pipes.
type Client struct {
	logger *logging.Logger
	cmd    *exec.Cmd

	out  chan outgoing
	in   chan Incoming
	done chan struct{}

	// Request ids count up from zero per client. pendingID is the id
	// whose response must be yielded next; later responses park in
	// pending until their turn.
	nextID    int
	pendingID int
	pending   map[int]Incoming
	idMethod  map[int]string

	caps gjson.Result
}

// Start spawns the server command and begins pumping its stdio.
func Start(logger *logging.Logger, command string, args ...string) (*Client, error) {
	cmd := exec.Command(command, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	c := newClient(logger.WithField("server", command), stdin, stdout, stderr)
	c.cmd = cmd
	return c, nil
}

// newClient wires a client over raw pipes. Tests inject their ends.
func newClient(logger *logging.Logger, stdin io.WriteCloser, stdout, stderr io.Reader) *Client {
	c := &Client{
		logger:   logger,
		out:      make(chan outgoing, channelDepth),
		in:       make(chan Incoming, channelDepth),
		done:     make(chan struct{}),
		pending:  map[int]Incoming{},
		idMethod: map[int]string{},
	}

	go c.writeLoop(stdin)
	go c.readLoop(stdout)
	go c.logErrors(stderr)
	return c
}

func (c *Client) writeLoop(stdin io.WriteCloser) {
	defer stdin.Close()
	// Keep draining after a write error so senders never block.
	defer func() {
		for range c.out {
		}
	}()
	w := bufio.NewWriter(stdin)
	for msg := range c.out {
		body, _ := sjson.Set("", "jsonrpc", "2.0")
		if !msg.notification {
			body, _ = sjson.Set(body, "id", msg.id)
		}
		body, _ = sjson.Set(body, "method", msg.method)
		if msg.params != "" {
			body, _ = sjson.SetRaw(body, "params", msg.params)
		}

		if err := WriteMessage(w, []byte(body)); err != nil {
			c.logger.Errorf("write failed: %v", err)
			break
		}
		if err := w.Flush(); err != nil {
			c.logger.Errorf("flush failed: %v", err)
			break
		}
	}
}

func (c *Client) readLoop(stdout io.Reader) {
	defer close(c.in)
	r := bufio.NewReader(stdout)
	for {
		body, err := ReadMessage(r)
		if err != nil {
			if err != io.EOF {
				c.logger.Errorf("language server disconnected: %v", err)
			}
			return
		}

		parsed := gjson.ParseBytes(body)
		var msg Incoming
		if id := parsed.Get("id"); id.Exists() {
			msg = Incoming{
				ID:     int(id.Int()),
				Result: parsed.Get("result"),
			}
			if e := parsed.Get("error"); e.Exists() {
				msg.Err = &ResponseError{
					Code:    int(e.Get("code").Int()),
					Message: e.Get("message").String(),
				}
			}
		} else {
			msg = Incoming{
				Notification: true,
				Method:       parsed.Get("method").String(),
				Params:       parsed.Get("params"),
			}
		}

		select {
		case c.in <- msg:
		case <-c.done:
			return
		}
	}
}

func (c *Client) logErrors(stderr io.Reader) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			c.logger.Error(line)
		}
	}
}

// Request sends a request and returns its id. The response surfaces
// later through Poll or Recv.
func (c *Client) Request(method, params string) (int, error) {
	id := c.nextID
	c.nextID++
	c.idMethod[id] = method
	if err := c.send(outgoing{id: id, method: method, params: params}); err != nil {
		return 0, err
	}
	return id, nil
}

// Notify sends a notification.
func (c *Client) Notify(method, params string) error {
	return c.send(outgoing{notification: true, method: method, params: params})
}

// send is main-loop only, as is Close, so the closed-channel check
// cannot race the send below.
func (c *Client) send(msg outgoing) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	c.out <- msg
	return nil
}

// Poll returns the next deliverable message without blocking. At most
// one transport message is drained per call; a response whose
// predecessors are still outstanding parks until they arrive.
func (c *Client) Poll() (Incoming, bool) {
	select {
	case msg, ok := <-c.in:
		if ok {
			if msg.Notification {
				return msg, true
			}
			c.pending[msg.ID] = msg
		}
	default:
	}
	return c.nextPending()
}

// Recv blocks for the next deliverable message, observing the same
// ordering as Poll.
func (c *Client) Recv(ctx context.Context) (Incoming, error) {
	for {
		if msg, ok := c.nextPending(); ok {
			return msg, nil
		}
		select {
		case <-ctx.Done():
			return Incoming{}, ctx.Err()
		case msg, ok := <-c.in:
			if !ok {
				return Incoming{}, ErrClosed
			}
			if msg.Notification {
				return msg, nil
			}
			c.pending[msg.ID] = msg
		}
	}
}

// nextPending releases the response for the oldest unanswered request
// if it has arrived, resolving its method from the request log.
func (c *Client) nextPending() (Incoming, bool) {
	msg, ok := c.pending[c.pendingID]
	if !ok {
		return Incoming{}, false
	}
	delete(c.pending, c.pendingID)
	c.pendingID++
	msg.Method = c.idMethod[msg.ID]
	delete(c.idMethod, msg.ID)
	return msg, true
}

const initializeTimeout = 5 * time.Second

// Initialize performs the handshake: sends the initialize request,
// waits for its response, stores the advertised capabilities and
// confirms with the initialized notification. Notifications arriving
// before the response are dropped.
func (c *Client) Initialize(workspace string) error {
	if _, err := c.Request("initialize", initializeParams(os.Getpid(), workspace)); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), initializeTimeout)
	defer cancel()
	for {
		msg, err := c.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Warn("initialization timed out, disabling server")
				return ErrInitializeTimeout
			}
			return err
		}
		if msg.Notification {
			continue
		}
		if msg.Err != nil {
			return msg.Err
		}
		c.caps = msg.Result.Get("capabilities")
		return c.Notify("initialized", "{}")
	}
}

// Capabilities returns the capabilities object from the initialize
// response.
func (c *Client) Capabilities() gjson.Result { return c.caps }

// Close tears down the transport and reaps the server process.
func (c *Client) Close() error {
	select {
	case <-c.done:
		return nil
	default:
	}
	close(c.done)
	close(c.out)
	if c.cmd != nil {
		c.cmd.Process.Kill()
		return c.cmd.Wait()
	}
	return nil
}
