package models

import "time"

// BrokerAccountLogin is a recorded login event. RemoteEndpoint is the IP or
// host observed at login time and may be missing on legacy records.
type BrokerAccountLogin struct {
	UserName       string
	RemoteEndpoint *string
	Timestamp      time.Time
}

// Endpoint returns the remote endpoint and whether one was recorded.
func (l *BrokerAccountLogin) Endpoint() (string, bool) {
	if l == nil || l.RemoteEndpoint == nil || *l.RemoteEndpoint == "" {
		return "", false
	}
	return *l.RemoteEndpoint, true
}

// BrokerAccount is the canonical account record. This module only ever
// changes EMail.
type BrokerAccount struct {
	UserName  string
	EMail     string
	Created   time.Time
	UpdatedAt time.Time
}
