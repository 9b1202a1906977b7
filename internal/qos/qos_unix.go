//go:build !windows

package qos

import (
	"fmt"
	"syscall"

	"go.uber.org/zap"
)

// control runs after the socket is created and before it is bound.
func (m *marker) control(network, address string, c syscall.RawConn) error {
	tos := ToTOS(m.dscp)
	ipv6 := isIPv6(network)

	var setsockoptErr error
	err := c.Control(func(fd uintptr) {
		if ipv6 {
			setsockoptErr = syscall.SetsockoptInt(int(fd), syscall.IPPROTO_IPV6, syscall.IPV6_TCLASS, tos)
		} else {
			setsockoptErr = syscall.SetsockoptInt(int(fd), syscall.IPPROTO_IP, syscall.IP_TOS, tos)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to access raw connection: %w", err)
	}
	if setsockoptErr != nil {
		return fmt.Errorf("failed to set DSCP %d (TOS=%d) on %s: %w", m.dscp, tos, address, setsockoptErr)
	}

	m.logger.Debug("DSCP marking applied",
		zap.String("address", address),
		zap.Int("dscp", m.dscp),
		zap.Bool("ipv6", ipv6),
	)
	return nil
}
