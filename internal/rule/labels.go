package rule

import (
	"fmt"
	"strings"
)

// portLabels names the well-known services the dashboard recognizes.
var portLabels = map[int]string{
	22:   "SSH",
	53:   "DNS",
	80:   "HTTP",
	123:  "NTP",
	443:  "HTTPS",
	3306: "MySQL",
	5432: "Postgres",
	6379: "Redis",
}

// PortLabel returns a human-readable name for traffic on proto/port.
// ICMP is always "ICMP ping"; unlabeled ports render as "<PROTO>/<port>"
// and rules without a concrete port as "traffic".
func PortLabel(proto, port string) string {
	p := Normalize(proto)
	if p == ICMP {
		return "ICMP ping"
	}
	n, ok := ParsePort(port)
	if !ok {
		return "traffic"
	}
	if label, found := portLabels[n]; found {
		return label
	}
	return fmt.Sprintf("%s/%d", strings.ToUpper(p), n)
}

// Comment derives the default comment for a synthesized or form-built rule.
func Comment(action Action, proto, port string) string {
	verb := "Allow "
	if action == Drop {
		verb = "Block "
	}
	return verb + PortLabel(proto, port)
}
