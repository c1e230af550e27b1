package actuator

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultDashboardPort    = 29999
	defaultDashboardTimeout = 5 * time.Second
)

// Replies starting with one of these mean the controller refused the command.
var faultPrefixes = []string{"Failed", "Error", "Could not"}

// DashboardClient talks to a robot controller's dashboard server: a plain
// TCP socket that greets on connect and answers every command with one line.
type DashboardClient struct {
	addr    string
	timeout time.Duration
	dialer  net.Dialer
}

func NewDashboardClient(host string, port int, timeout time.Duration) *DashboardClient {
	if port == 0 {
		port = DefaultDashboardPort
	}
	if timeout <= 0 {
		timeout = defaultDashboardTimeout
	}
	return &DashboardClient{
		addr:    net.JoinHostPort(host, strconv.Itoa(port)),
		timeout: timeout,
		dialer:  net.Dialer{Timeout: timeout},
	}
}

func (c *DashboardClient) Addr() string { return c.addr }

// Run opens one session, sends cmds in order and returns their replies.
// It stops at the first refused command.
func (c *DashboardClient) Run(ctx context.Context, cmds ...string) ([]string, error) {
	conn, err := c.dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, fmt.Errorf("connect dashboard %s: %w", c.addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	r := bufio.NewReader(conn)
	if _, err := readLine(r); err != nil {
		return nil, fmt.Errorf("read greeting: %w", err)
	}

	replies := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		if _, err := fmt.Fprintf(conn, "%s\n", cmd); err != nil {
			return replies, fmt.Errorf("send %q: %w", cmd, err)
		}
		reply, err := readLine(r)
		if err != nil {
			return replies, fmt.Errorf("read reply to %q: %w", cmd, err)
		}
		replies = append(replies, reply)
		if isFault(reply) {
			return replies, fmt.Errorf("device refused %q: %s", cmd, reply)
		}
	}
	return replies, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func isFault(reply string) bool {
	for _, p := range faultPrefixes {
		if strings.HasPrefix(reply, p) {
			return true
		}
	}
	return false
}
