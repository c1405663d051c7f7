package probe

import (
	"fmt"

	"github.com/plexsphere/weftctl/internal/rule"
)

// Expectation texts appended after every probe command.
const (
	ExpectAllowed = "should WORK (allowed)"
	ExpectBlocked = "should FAIL / timeout (blocked)"
)

const (
	netcatTip  = "tip: if nc isn't installed: sudo apt install -y netcat-openbsd"
	pingCount  = 2
	probeHost  = "example.com"
	recipeBase = "broad"

	// invalidToken replaces rule fields that cannot be pasted into a shell.
	invalidToken = "invalid"
)

// ruleCtx is the normalized view of a rule the match rules operate on.
type ruleCtx struct {
	proto   string
	port    int
	hasPort bool
	target  string
	expect  string
}

func (c ruleCtx) protoIs(protos ...string) bool {
	for _, p := range protos {
		if c.proto == p {
			return true
		}
	}
	return false
}

func (c ruleCtx) portIs(port int) bool {
	return c.hasPort && c.port == port
}

// matchRule is one entry of the priority-ordered decision table.
type matchRule struct {
	name  string
	match func(c ruleCtx) bool
	build func(b *builder, c ruleCtx)
}

// builder accumulates script lines.
type builder struct {
	lines []Line
}

func (b *builder) comment(format string, args ...any) {
	b.lines = append(b.lines, Line{Kind: Comment, Text: fmt.Sprintf(format, args...)})
}

func (b *builder) blank() {
	b.lines = append(b.lines, Line{Kind: Blank})
}

// probe appends a command followed by its expectation line.
func (b *builder) probe(c ruleCtx, format string, args ...any) {
	b.lines = append(b.lines,
		Line{Kind: Command, Text: fmt.Sprintf(format, args...)},
		Line{Kind: Expectation, Text: c.expect},
	)
}

func (b *builder) netcatTip() {
	b.blank()
	b.comment(netcatTip)
}

// tcpLike matches tcp rules and protocol-agnostic rules with a concrete port.
func tcpLike(c ruleCtx) bool { return c.hasPort && c.protoIs(rule.TCP, rule.Any) }

// udpLike matches udp rules and protocol-agnostic rules with a concrete port.
func udpLike(c ruleCtx) bool { return c.hasPort && c.protoIs(rule.UDP, rule.Any) }

// defaultRules is the decision table, highest priority first. The last entry
// always matches. Protocol tokens outside tcp/udp/icmp/any match none of the
// specific entries and intentionally receive the broad battery.
var defaultRules = []matchRule{
	{
		name:  "icmp",
		match: func(c ruleCtx) bool { return c.proto == rule.ICMP },
		build: func(b *builder, c ruleCtx) {
			b.probe(c, "ping -c %d %s", pingCount, c.target)
		},
	},
	{
		name:  "http",
		match: func(c ruleCtx) bool { return tcpLike(c) && c.portIs(80) },
		build: func(b *builder, c ruleCtx) {
			b.probe(c, "curl -I http://%s", probeHost)
		},
	},
	{
		name:  "https",
		match: func(c ruleCtx) bool { return tcpLike(c) && c.portIs(443) },
		build: func(b *builder, c ruleCtx) {
			b.probe(c, "curl -I https://%s", probeHost)
		},
	},
	{
		name:  "ssh",
		match: func(c ruleCtx) bool { return tcpLike(c) && c.portIs(22) },
		build: func(b *builder, c ruleCtx) {
			b.probe(c, "nc -vz %s 22", c.target)
			b.netcatTip()
		},
	},
	{
		name:  "tcp",
		match: tcpLike,
		build: func(b *builder, c ruleCtx) {
			b.probe(c, "nc -vz %s %d", c.target, c.port)
			b.netcatTip()
		},
	},
	{
		name:  "dns",
		match: func(c ruleCtx) bool { return udpLike(c) && c.portIs(53) },
		build: func(b *builder, c ruleCtx) {
			b.probe(c, "dig @%s %s", c.target, probeHost)
			b.blank()
			b.comment("Install dig if needed:")
			b.comment("sudo apt install -y dnsutils")
		},
	},
	{
		name:  "ntp",
		match: func(c ruleCtx) bool { return udpLike(c) && c.portIs(123) },
		build: func(b *builder, c ruleCtx) {
			b.comment("NTP quick probe (udp/123)")
			b.probe(c, "nc -vu %s 123", c.target)
			b.netcatTip()
		},
	},
	{
		name:  "udp",
		match: udpLike,
		build: func(b *builder, c ruleCtx) {
			b.comment("UDP test is less direct than TCP.")
			b.comment("Suggested generic probe (may not conclusively prove allow/deny):")
			b.probe(c, "nc -vu %s %d", c.target, c.port)
			b.netcatTip()
		},
	},
	{
		name:  recipeBase,
		match: func(ruleCtx) bool { return true },
		build: func(b *builder, c ruleCtx) {
			b.comment("This rule is broad (proto/port is 'any'). Try common tests:")
			b.blank()
			b.probe(c, "curl -I https://%s", probeHost)
			b.blank()
			b.probe(c, "ping -c %d %s", pingCount, c.target)
			b.blank()
			b.comment("If dig is missing: sudo apt install -y dnsutils")
		},
	},
}

// Engine turns rule descriptors into probe scripts.
type Engine struct {
	cfg   Config
	rules []matchRule
}

// NewEngine creates an Engine. Config defaults are applied automatically.
func NewEngine(cfg Config) *Engine {
	cfg.ApplyDefaults()
	return &Engine{
		cfg:   cfg,
		rules: defaultRules,
	}
}

var defaultEngine = NewEngine(Config{})

// Recommend derives a probe script for r using the default configuration.
func Recommend(r rule.Descriptor) Script {
	return defaultEngine.Recommend(r)
}

// Recommend derives a probe script for r. It never fails: malformed fields
// collapse to "any" and land on the broader entries of the decision table.
// Fields that are not a single plain shell word never reach the script text.
func (e *Engine) Recommend(r rule.Descriptor) Script {
	n := r.Normalized()
	if !rule.IsPlain(n.Protocol) {
		n.Protocol = invalidToken
	}
	plainDst := rule.IsPlain(n.Destination)
	if !plainDst {
		n.Destination = invalidToken
	}

	c := ruleCtx{
		proto:  n.Protocol,
		target: n.Destination,
		expect: ExpectAllowed,
	}
	c.port, c.hasPort = n.Port()
	if !plainDst || rule.IsAny(c.target) {
		c.target = e.cfg.FallbackTarget
	}
	if rule.Action(n.Action) == rule.Drop {
		c.expect = ExpectBlocked
	}

	b := &builder{}
	b.comment("Rule quick test (auto-generated)")
	b.comment("Rule: %s", n)
	if !plainDst {
		b.comment("Destination is not a plain address; probing %s instead.", c.target)
	}
	b.blank()

	recipe := recipeBase
	for _, mr := range e.rules {
		if mr.match(c) {
			mr.build(b, c)
			recipe = mr.name
			break
		}
	}
	return Script{Recipe: recipe, lines: b.lines}
}
