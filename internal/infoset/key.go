// Package infoset implements the deterministic encoding of an information
// set into the string key used as the sole identity in the regret store.
package infoset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/holdem-solver/internal/actionabs"
	"github.com/lox/holdem-solver/internal/game"
)

const currentVersion = "v2"

// ByStreet is the ordered-by-street action history: each street present maps
// to the sequence of AbstractActions taken on it, in acting order.
type ByStreet map[game.Street]actionabs.History

// streetOrder is the canonical emission order, independent of map iteration.
var streetOrder = []game.Street{game.Preflop, game.Flop, game.Turn, game.River}

func (h ByStreet) String() string {
	var parts []string
	for _, st := range streetOrder {
		hist, ok := h[st]
		if !ok {
			continue
		}
		parts = append(parts, st.String()+":"+hist.String())
	}
	return strings.Join(parts, "|")
}

// ParseByStreet parses the "PREFLOP:tok-tok|FLOP:tok-tok" form.
func ParseByStreet(s string) (ByStreet, error) {
	out := ByStreet{}
	if s == "" {
		return out, nil
	}
	for _, seg := range strings.Split(s, "|") {
		idx := strings.IndexByte(seg, ':')
		if idx < 0 {
			return nil, fmt.Errorf("infoset: malformed street segment %q", seg)
		}
		st, err := game.ParseStreet(seg[:idx])
		if err != nil {
			return nil, err
		}
		hist, err := actionabs.ParseHistory(seg[idx+1:])
		if err != nil {
			return nil, fmt.Errorf("infoset: street %s: %w", st, err)
		}
		out[st] = hist
	}
	return out, nil
}

// Key is a parsed infoset key: street, bucket, and the action history so
// far. Encode/decode round trip through the v2 string form.
type Key struct {
	Street game.Street
	Bucket int
	History ByStreet
}

// Encode returns "v2:<street>:<bucket>:<history>".
func Encode(street game.Street, bucket int, history ByStreet) string {
	return fmt.Sprintf("%s:%s:%d:%s", currentVersion, street, bucket, history.String())
}

func (k Key) String() string { return Encode(k.Street, k.Bucket, k.History) }

// Parse accepts both the current "v2:STREET:bucket:history" form and two
// legacy forms for backward compatibility: keys missing the "v2:" prefix,
// and keys whose history uses '.' instead of '|' to separate streets.
func Parse(s string) (Key, error) {
	s = strings.TrimPrefix(s, currentVersion+":")
	s = strings.ReplaceAll(s, ".", "|")

	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return Key{}, fmt.Errorf("infoset: malformed key %q", s)
	}
	street, err := game.ParseStreet(parts[0])
	if err != nil {
		return Key{}, fmt.Errorf("infoset: %w", err)
	}
	bucket, err := strconv.Atoi(parts[1])
	if err != nil {
		return Key{}, fmt.Errorf("infoset: invalid bucket in key %q: %w", s, err)
	}
	var history ByStreet
	if len(parts) == 3 {
		history, err = ParseByStreet(parts[2])
		if err != nil {
			return Key{}, err
		}
	} else {
		history = ByStreet{}
	}
	return Key{Street: street, Bucket: bucket, History: history}, nil
}
