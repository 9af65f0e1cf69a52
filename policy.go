package linkbar

import (
	"strings"

	"github.com/avernet/linkbar/display"
)

// PolicyKind selects which displays receive overlays.
type PolicyKind string

const (
	// PolicyAll targets every display in the topology.
	PolicyAll PolicyKind = "all"

	// PolicyMain targets only the platform's designated primary display.
	PolicyMain PolicyKind = "main"

	// PolicyMatch targets every display whose name or ID contains the
	// policy's substring, case-insensitively.
	PolicyMatch PolicyKind = "match"
)

// Policy is a display-selection policy.
//
// The zero value is not meaningful; use [AllDisplays], [MainDisplay],
// [MatchDisplays], or [ParsePolicy].
type Policy struct {
	Kind      PolicyKind
	Substring string
}

// AllDisplays targets every display.
func AllDisplays() Policy { return Policy{Kind: PolicyAll} }

// MainDisplay targets the primary display only.
func MainDisplay() Policy { return Policy{Kind: PolicyMain} }

// MatchDisplays targets displays whose name or ID contains substring,
// case-insensitively.
func MatchDisplays(substring string) Policy {
	return Policy{Kind: PolicyMatch, Substring: substring}
}

// ParsePolicy parses a policy from its configuration form: "all", "main",
// or "match:<substring>".
//
// The second return is false for anything unparseable, including an empty
// match substring; the returned policy is then the [MainDisplay] fallback,
// so callers can log the problem and use the result as-is.
func ParsePolicy(s string) (Policy, bool) {
	in := strings.TrimSpace(s)

	// prefix check on the original bytes: lowering the whole input first
	// can change byte offsets for non-ASCII substrings
	const prefix = "match:"
	if len(in) >= len(prefix) && strings.EqualFold(in[:len(prefix)], prefix) {
		sub := strings.TrimSpace(in[len(prefix):])
		if sub == "" {
			return MainDisplay(), false
		}
		return MatchDisplays(sub), true
	}

	switch strings.ToLower(in) {
	case "all":
		return AllDisplays(), true
	case "main":
		return MainDisplay(), true
	default:
		return MainDisplay(), false
	}
}

// String renders the policy in its configuration form.
func (p Policy) String() string {
	if p.Kind == PolicyMatch {
		return string(PolicyMatch) + ":" + p.Substring
	}
	return string(p.Kind)
}

// Resolve returns the ordered displays the policy targets within a
// topology.
//
// The fallback chain: a match policy with zero hits falls back to the
// primary display; an unknown kind behaves as main; no primary display in
// the topology yields an empty result, which callers must treat as
// "nothing to draw", never as an error.
func (p Policy) Resolve(displays []display.Display) []display.Display {
	switch p.Kind {
	case PolicyAll:
		out := make([]display.Display, len(displays))
		copy(out, displays)
		return out

	case PolicyMatch:
		needle := strings.ToLower(p.Substring)
		var out []display.Display
		for _, d := range displays {
			if strings.Contains(strings.ToLower(d.Name), needle) ||
				strings.Contains(strings.ToLower(d.ID), needle) {
				out = append(out, d)
			}
		}
		if len(out) > 0 {
			return out
		}
		return primaryOnly(displays)

	default:
		return primaryOnly(displays)
	}
}

func primaryOnly(displays []display.Display) []display.Display {
	for _, d := range displays {
		if d.Primary {
			return []display.Display{d}
		}
	}
	return nil
}
