// Package qos marks the service's sockets with a DSCP value so routers can
// prioritize registry traffic.
package qos

import (
	"fmt"
	"net"

	"go.uber.org/zap"
)

// MaxDSCP is the largest Differentiated Services Code Point value.
const MaxDSCP = 63

// ListenConfig returns a net.ListenConfig whose sockets are marked with dscp.
// Connections accepted from the listener inherit the marking. A dscp of 0
// (best effort) leaves sockets untouched.
func ListenConfig(dscp int, logger *zap.Logger) (*net.ListenConfig, error) {
	if dscp < 0 || dscp > MaxDSCP {
		return nil, fmt.Errorf("DSCP value must be between 0 and %d, got %d", MaxDSCP, dscp)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	lc := &net.ListenConfig{}
	if dscp > 0 {
		m := &marker{dscp: dscp, logger: logger}
		lc.Control = m.control
	}
	return lc, nil
}

// ToTOS converts a DSCP value to the TOS byte value.
func ToTOS(dscp int) int {
	return dscp << 2
}

// marker applies a DSCP value to raw sockets.
type marker struct {
	dscp   int
	logger *zap.Logger
}

func isIPv6(network string) bool {
	return network == "tcp6" || network == "udp6"
}
