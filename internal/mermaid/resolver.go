package mermaid

import "strings"

// Branch labels eligible for relocation. Anything else on an edge is an
// ordinary annotation and is never moved.
var branchLabels = map[string]struct{}{
	"yes": {}, "no": {}, "true": {}, "false": {},
}

// Hint vocabularies for scoring candidate destinations. The lists are part of
// the tool's observable behavior; editing them changes relocation outcomes on
// real inputs, so they stay as-is ("remove" included on the positive side).
var (
	positiveHints = []string{
		"add", "use", "enable", "create", "remove", "success",
		"ready", "connected", "established", "proceed", "continue",
	}
	negativeHints = []string{
		"fail", "error", "invalid", "reject", "timeout", "blocked",
		"missing", "not", "false", "empty", "return", "skip", "default",
	}
)

type polarity int

const (
	polarityNone polarity = iota
	polarityPositive
	polarityNegative
)

func isBranchLabel(e *Edge) bool {
	if !e.HasLabel {
		return false
	}
	_, ok := branchLabels[strings.ToLower(strings.TrimSpace(e.Label))]
	return ok
}

func labelPolarity(label string) polarity {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "yes", "true":
		return polarityPositive
	case "no", "false":
		return polarityNegative
	}
	return polarityNone
}

// edgeScore rates how well a destination's display text matches the branch
// polarity. Each hint word counts once if present, regardless of repetition.
func edgeScore(text string, pol polarity) int {
	if pol == polarityNone {
		return 0
	}
	lower := strings.ToLower(text)
	var posHits, negHits int
	for _, hint := range positiveHints {
		if strings.Contains(lower, hint) {
			posHits++
		}
	}
	for _, hint := range negativeHints {
		if strings.Contains(lower, hint) {
			negHits++
		}
	}
	if pol == polarityPositive {
		return posHits - negHits
	}
	return negHits - posHits
}

// chooseEdge picks the relocation target among candidate edge indices, or -1
// when the choice would be ambiguous. Ties are never broken arbitrarily.
func (m *Model) chooseEdge(candidates []int, pol polarity) int {
	if len(candidates) == 0 {
		return -1
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	if pol == polarityNone {
		return m.soleUnlabeled(candidates)
	}

	scores := make([]int, len(candidates))
	maxScore := 0
	for i, idx := range candidates {
		target := m.Edges[idx]
		text, ok := m.NodeLabels[target.Destination]
		if !ok {
			text = target.Destination
		}
		scores[i] = edgeScore(text, pol)
		if i == 0 || scores[i] > maxScore {
			maxScore = scores[i]
		}
	}
	if maxScore <= 0 {
		return m.soleUnlabeled(candidates)
	}

	winner := -1
	for i, idx := range candidates {
		if scores[i] != maxScore {
			continue
		}
		if winner >= 0 {
			return -1
		}
		winner = idx
	}
	return winner
}

func (m *Model) soleUnlabeled(candidates []int) int {
	winner := -1
	for _, idx := range candidates {
		if m.Edges[idx].HasLabel {
			continue
		}
		if winner >= 0 {
			return -1
		}
		winner = idx
	}
	return winner
}

// RelocateBranchLabels runs one resolution pass over the model in file order
// and returns the number of labels moved.
//
// A label is a relocation candidate only when it sits on the sole outgoing
// edge of its source: the label then belongs not to that edge but to one of
// the destination's branches. Targets are claimed first-come-first-served,
// which keeps the pass deterministic without a global matching step.
func (m *Model) RelocateBranchLabels() int {
	moved := 0
	claimed := make(map[int]struct{})

	for i, e := range m.Edges {
		if _, taken := claimed[i]; taken {
			continue
		}
		if !isBranchLabel(e) {
			continue
		}
		if len(m.Outgoing[e.Source]) != 1 {
			continue
		}

		branches := m.Outgoing[e.Destination]
		if len(branches) < 2 {
			continue
		}
		var candidates []int
		for _, idx := range branches {
			// An edge that already carries its own label is never overwritten.
			if !m.Edges[idx].HasLabel {
				candidates = append(candidates, idx)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		target := m.chooseEdge(candidates, labelPolarity(e.Label))
		if target < 0 {
			continue
		}

		t := m.Edges[target]
		t.Label, t.HasLabel = e.Label, true
		e.Label, e.HasLabel = "", false
		claimed[target] = struct{}{}
		moved++
	}

	return moved
}
