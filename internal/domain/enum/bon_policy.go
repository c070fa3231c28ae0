package enum

import "strings"

// BonPolicy decides whether a checkout produces pickup slips
type BonPolicy string

const (
	BonPolicyNever    BonPolicy = "NEVER"
	BonPolicyAlways   BonPolicy = "ALWAYS"
	BonPolicyOptional BonPolicy = "OPTIONAL"
)

func (b BonPolicy) String() string {
	return string(b)
}

func (b BonPolicy) IsValid() bool {
	switch b {
	case BonPolicyNever, BonPolicyAlways, BonPolicyOptional:
		return true
	}
	return false
}

// ParseBonPolicy normalizes a stored setting value. Unknown values fall back to NEVER.
func ParseBonPolicy(value string) BonPolicy {
	p := BonPolicy(strings.ToUpper(strings.TrimSpace(value)))
	if !p.IsValid() {
		return BonPolicyNever
	}
	return p
}
