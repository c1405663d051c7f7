// Package rule defines the firewall rule vocabulary shared by the probe engine,
// the rule selector and the random rule synthesizer.
package rule

import "fmt"

// Action is the verdict a rule applies to matching traffic.
type Action string

const (
	Accept Action = "ACCEPT"
	Drop   Action = "DROP"
)

// Recognized protocol tokens. Other tokens pass through Normalize unchanged.
const (
	TCP  = "tcp"
	UDP  = "udp"
	ICMP = "icmp"
)

// Descriptor describes a single dashboard rule. Values are kept as entered;
// call Normalized before comparing fields.
type Descriptor struct {
	ID              int64  // table row id, 0 when the rule did not come from a table
	Action          string // "ACCEPT" or "DROP"
	Protocol        string // "tcp", "udp", "icmp" or Any
	Source          string // address or Any
	Destination     string // address or Any
	DestinationPort string // numeric port or Any
	Comment         string
}

// Normalized returns a copy of d with every matchable field canonicalized.
// The comment is trimmed but keeps its case.
func (d Descriptor) Normalized() Descriptor {
	port := Any
	if p, ok := ParsePort(d.DestinationPort); ok {
		port = fmt.Sprint(p)
	}
	return Descriptor{
		ID:              d.ID,
		Action:          string(NormalizeAction(d.Action)),
		Protocol:        Normalize(d.Protocol),
		Source:          Normalize(d.Source),
		Destination:     Normalize(d.Destination),
		DestinationPort: port,
		Comment:         trim(d.Comment),
	}
}

// Port returns the concrete destination port, or false when the rule matches
// any port.
func (d Descriptor) Port() (int, bool) {
	return ParsePort(d.DestinationPort)
}

// String renders the rule in the one-line form used by probe script headers.
func (d Descriptor) String() string {
	n := d.Normalized()
	return fmt.Sprintf("%s proto=%s dst=%s dport=%s", n.Action, n.Protocol, n.Destination, n.DestinationPort)
}
