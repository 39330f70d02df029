package filterlog

import "fmt"

// Reason is why pf logged the packet. pf currently only emits "match".
type Reason string

const ReasonMatch Reason = "match"

func parseReason(tok string) (Reason, error) {
	if tok == "match" {
		return ReasonMatch, nil
	}
	return "", fmt.Errorf("invalid reason %q", tok)
}

// Action is the verdict of the matching rule.
type Action string

const (
	ActionPass   Action = "pass"
	ActionBlock  Action = "block"
	ActionReject Action = "reject"
)

func parseAction(tok string) (Action, error) {
	switch tok {
	case "pass":
		return ActionPass, nil
	case "block":
		return ActionBlock, nil
	case "reject":
		return ActionReject, nil
	}
	return "", fmt.Errorf("invalid action %q", tok)
}

// Dir is the direction of the packet relative to the interface.
type Dir string

const (
	DirIn  Dir = "in"
	DirOut Dir = "out"
)

func parseDir(tok string) (Dir, error) {
	switch tok {
	case "in":
		return DirIn, nil
	case "out":
		return DirOut, nil
	}
	return "", fmt.Errorf("invalid direction %q", tok)
}

// RuleInfo identifies the rule that matched the packet. Subrule and
// Anchor are absent for rules outside anchors; Label is the rule's
// opaque tracking id.
type RuleInfo struct {
	Number  uint32  `json:"number"`
	Subrule *uint32 `json:"subrule,omitempty"`
	Anchor  string  `json:"anchor,omitempty"`
	Label   string  `json:"label"`
}

// PacketFilter is the filter-decision prefix of a filterlog line.
type PacketFilter struct {
	Rule      RuleInfo `json:"rule"`
	Interface string   `json:"interface"`
	Reason    Reason   `json:"reason"`
	Action    Action   `json:"action"`
	Dir       Dir      `json:"dir"`
}

func parseRuleInfo(in string) (RuleInfo, string, error) {
	number, rest, err := u32Field(in)
	if err != nil {
		return RuleInfo{}, "", fmt.Errorf("rule number: %w", err)
	}
	subrule, rest, err := optU32Field(rest)
	if err != nil {
		return RuleInfo{}, "", fmt.Errorf("subrule number: %w", err)
	}
	anchor, rest, err := textField(rest)
	if err != nil {
		return RuleInfo{}, "", fmt.Errorf("anchor name: %w", err)
	}
	label, rest, err := tokenField(rest)
	if err != nil {
		return RuleInfo{}, "", fmt.Errorf("label: %w", err)
	}
	return RuleInfo{
		Number:  number,
		Subrule: subrule,
		Anchor:  anchor,
		Label:   label,
	}, rest, nil
}

// parsePacketFilter decodes the filter-decision prefix and returns the
// unconsumed remainder. The reason/action/dir keywords are matched
// against the whole delimiter-anchored token, so a longer token sharing
// a prefix with a keyword ("inner" vs "in") is rejected, never
// truncated.
func parsePacketFilter(in string) (PacketFilter, string, error) {
	rule, rest, err := parseRuleInfo(in)
	if err != nil {
		return PacketFilter{}, "", err
	}
	iface, rest, err := textField(rest)
	if err != nil {
		return PacketFilter{}, "", fmt.Errorf("interface: %w", err)
	}

	tok, rest, err := tokenField(rest)
	if err != nil {
		return PacketFilter{}, "", fmt.Errorf("reason: %w", err)
	}
	reason, err := parseReason(tok)
	if err != nil {
		return PacketFilter{}, "", err
	}

	tok, rest, err = tokenField(rest)
	if err != nil {
		return PacketFilter{}, "", fmt.Errorf("action: %w", err)
	}
	action, err := parseAction(tok)
	if err != nil {
		return PacketFilter{}, "", err
	}

	tok, rest, err = tokenField(rest)
	if err != nil {
		return PacketFilter{}, "", fmt.Errorf("direction: %w", err)
	}
	dir, err := parseDir(tok)
	if err != nil {
		return PacketFilter{}, "", err
	}

	return PacketFilter{
		Rule:      rule,
		Interface: iface,
		Reason:    reason,
		Action:    action,
		Dir:       dir,
	}, rest, nil
}
