package service

import (
	"fmt"

	"lobbywatch/internal/domain"
)

type DiffMode string

const (
	DiffLiteral    DiffMode = "literal"
	DiffMembership DiffMode = "membership"
)

// DiffFunc picks the entries of current worth reporting. hasPrevious is false
// before the first reported cycle.
type DiffFunc func(previous domain.Snapshot, hasPrevious bool, current domain.Snapshot) domain.Snapshot

func DiffFor(mode DiffMode) (DiffFunc, error) {
	switch mode {
	case DiffLiteral, "":
		return LiteralDiff, nil
	case DiffMembership:
		return MembershipDiff, nil
	default:
		return nil, fmt.Errorf("unknown diff mode %q", mode)
	}
}

// LiteralDiff reports an entry when its name differs from at least one
// previous name. With more than one distinct previous name every entry is
// reported again.
func LiteralDiff(previous domain.Snapshot, hasPrevious bool, current domain.Snapshot) domain.Snapshot {
	if !hasPrevious {
		return current
	}

	reported := make(domain.Snapshot, 0, len(current))
	for _, lobby := range current {
		for _, old := range previous {
			if old.Name != lobby.Name {
				reported = append(reported, lobby)
				break
			}
		}
	}
	return reported
}

// MembershipDiff reports entries whose name is absent from the previous
// snapshot.
func MembershipDiff(previous domain.Snapshot, hasPrevious bool, current domain.Snapshot) domain.Snapshot {
	if !hasPrevious {
		return current
	}

	seen := make(map[string]struct{}, len(previous))
	for _, old := range previous {
		seen[old.Name] = struct{}{}
	}

	reported := make(domain.Snapshot, 0, len(current))
	for _, lobby := range current {
		if _, ok := seen[lobby.Name]; !ok {
			reported = append(reported, lobby)
		}
	}
	return reported
}
