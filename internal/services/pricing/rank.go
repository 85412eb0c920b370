// Package pricing resolves authoritative current prices from raw observations
package pricing

import (
	"strconv"
	"strings"
)

// batchRankWeights combine up to four slash-delimited segments into a single
// ordinal: major*10000 + minor*100 + patch + subpatch*0.01.
var batchRankWeights = [4]float64{10000, 100, 1, 0.01}

// BatchRank derives a comparable ordinal from a batch identifier. Batch ids
// are slash-delimited sequences of up to four non-negative integers ordered
// coarse to fine (e.g. "2/1/3"). The function is total: it never fails on
// malformed input: empty or unparsable segments simply contribute nothing,
// so a fully malformed id ranks 0 and sorts below every well-formed one.
func BatchRank(batchID string) float64 {
	trimmed := strings.TrimSpace(batchID)
	if trimmed == "" {
		return 0
	}

	rank := 0.0
	for i, segment := range strings.Split(trimmed, "/") {
		if i >= len(batchRankWeights) {
			break
		}
		n, err := strconv.Atoi(strings.TrimSpace(segment))
		if err != nil || n < 0 {
			continue
		}
		rank += float64(n) * batchRankWeights[i]
	}
	return rank
}
