package probe

import (
	"context"
	"net"
	"strconv"
	"time"
)

type dialFunc func(ctx context.Context, network, address string) (net.Conn, error)

var loopbackHosts = []string{"127.0.0.1", "::1"}

// acceptsConnections dials the port on the loopback interfaces and reports
// whether any of them accepted the connection.
func acceptsConnections(dial dialFunc, port int, timeout time.Duration) bool {
	for _, host := range loopbackHosts {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		conn, err := dial(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		cancel()
		if err != nil {
			continue
		}
		_ = conn.Close()
		return true
	}
	return false
}
