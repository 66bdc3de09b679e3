package cli

import (
	"github.com/roach88/cakeledger/internal/images"
)

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// imageSummary keeps payloads out of terminal output.
func imageSummary(ref string) string {
	switch images.Classify(ref) {
	case images.KindAbsent:
		return "-"
	case images.KindPayload:
		return "inline image"
	default:
		return ref
	}
}
