package routing

import "github.com/sirupsen/logrus"

// NodeLogger returns a structured per-node logger, tagging every line
// with the node id and protocol name the way the original C
// implementation's ROUTING_LOG_* macros tag a node id into every printf.
func NodeLogger(protocol string, node NodeID) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"protocol": protocol,
		"node":     node,
	})
}
