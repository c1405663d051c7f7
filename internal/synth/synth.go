// Package synth generates plausible dashboard rules for demos and
// exploratory testing. It is not security logic.
package synth

import (
	"math/rand/v2"
	"strconv"

	"github.com/plexsphere/weftctl/internal/rule"
)

// Probabilities used when drawing a rule.
const (
	acceptRatio     = 0.65
	anyPortRatio    = 0.35 // chance that a protocol-agnostic rule gets a port
	randomSrcRatio  = 0.5
	seedStreamConst = 0x5745_4654 // "WEFT"
)

var (
	// protocols is skewed toward tcp by listing it twice.
	protocols = []string{rule.TCP, rule.TCP, rule.UDP, rule.ICMP, rule.Any}

	tcpPorts = []int{22, 25, 80, 443, 587, 8080, 8443, 3306, 5432, 6379}
	udpPorts = []int{53, 67, 68, 123, 161, 500, 4500}
	anyPorts = []int{80, 443, 53, 22}

	addresses = []string{
		"127.0.0.1",
		"10.0.2.15",
		"192.168.1.10",
		"8.8.8.8",
		"1.1.1.1",
		"9.9.9.9",
		"208.67.222.222",
	}
)

// NewRand returns a deterministic random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seedStreamConst))
}

// Synthesize draws a rule from rng. Equal seeds yield equal rules.
func Synthesize(rng *rand.Rand) rule.Descriptor {
	proto := pick(rng, protocols)

	port := rule.Any
	switch proto {
	case rule.TCP:
		port = strconv.Itoa(pick(rng, tcpPorts))
	case rule.UDP:
		port = strconv.Itoa(pick(rng, udpPorts))
	case rule.Any:
		if chance(rng, anyPortRatio) {
			port = strconv.Itoa(pick(rng, anyPorts))
		}
	}

	src, dst := rule.Any, rule.Any
	if chance(rng, randomSrcRatio) {
		src = pick(rng, addresses)
	} else {
		dst = pick(rng, addresses)
	}

	action := rule.Drop
	if chance(rng, acceptRatio) {
		action = rule.Accept
	}

	return rule.Descriptor{
		Action:          string(action),
		Protocol:        proto,
		Source:          src,
		Destination:     dst,
		DestinationPort: port,
		Comment:         rule.Comment(action, proto, port),
	}
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

func chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}
