package common

import "strings"

// ContainsFold reports whether s equals any of the candidates under simple
// case folding.
func ContainsFold(s string, candidates ...string) bool {
	for _, c := range candidates {
		if strings.EqualFold(s, c) {
			return true
		}
	}
	return false
}
