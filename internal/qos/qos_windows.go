//go:build windows

package qos

import (
	"syscall"

	"go.uber.org/zap"
)

// control is a no-op on Windows, where DSCP marking goes through the QoS API
// and needs elevated privileges.
func (m *marker) control(network, address string, c syscall.RawConn) error {
	m.logger.Warn("DSCP marking is not supported on Windows, skipping",
		zap.Int("dscp", m.dscp),
	)
	return nil
}
