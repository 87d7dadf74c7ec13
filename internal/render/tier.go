package render

import (
	"fmt"
	"strings"
)

// Tier is an encode quality profile.
type Tier string

const (
	// TierPreview favours render speed over fidelity.
	TierPreview Tier = "preview"
	// TierFinal is the slow, high quality encode.
	TierFinal Tier = "final"
)

// ParseTier accepts "preview" or "final" in any case.
func ParseTier(value string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(value))) {
	case TierPreview:
		return TierPreview, nil
	case TierFinal:
		return TierFinal, nil
	default:
		return "", fmt.Errorf("unknown tier %q (want preview or final)", value)
	}
}

// OutputName is the file a tier renders to inside a project directory.
func (t Tier) OutputName() string {
	return string(t) + ".mp4"
}
