package authinbox

import (
	"context"
	"strings"
)

// NotificationTarget is one push destination, identified by its device token.
// Targets are independent of each other; a failure on one never affects the
// others.
type NotificationTarget struct {
	Token string
}

// Notifier fans an extracted title/code out to the configured targets.
// Delivery is best-effort: per-target outcomes are logged by the
// implementation and never surface to the caller.
type Notifier interface {
	Notify(ctx context.Context, title, code string)
}

// ParseTargetList parses the configured token list into targets. The list is
// bracket-and-comma delimited ("[tok1, tok2]"); surrounding whitespace on each
// token is trimmed and empty entries are ignored. A list without brackets is
// accepted as plain comma-separated tokens.
func ParseTargetList(s string) []NotificationTarget {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	var targets []NotificationTarget
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		targets = append(targets, NotificationTarget{Token: tok})
	}
	return targets
}
