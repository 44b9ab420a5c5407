package corpus

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SplitStats summarises one encoded split.
type SplitStats struct {
	Split      string
	Tokens     int
	Distinct   int     // Number of vocabulary entries that occur.
	Coverage   float64 // Distinct / vocabulary size.
	Entropy    float64 // Unigram entropy in bits per token.
	OutOfRange int     // Ids outside the vocabulary; zero for a valid dataset.
}

// ComputeStats returns statistics for the train, valid and test splits.
func ComputeStats(ds *Dataset) []SplitStats {
	vocabSize := ds.Vocab.Len()
	out := make([]SplitStats, 0, 3)

	for _, name := range SplitNames() {
		ids, _ := ds.Split(name)
		s := SplitStats{Split: name, Tokens: len(ids)}

		counts := make([]float64, vocabSize)
		for _, id := range ids {
			if int(id) >= vocabSize {
				s.OutOfRange++
				continue
			}
			counts[id]++
		}

		for _, c := range counts {
			if c > 0 {
				s.Distinct++
			}
		}
		if vocabSize > 0 {
			s.Coverage = float64(s.Distinct) / float64(vocabSize)
		}

		if total := floats.Sum(counts); total > 0 {
			floats.Scale(1/total, counts)
			s.Entropy = stat.Entropy(counts) / math.Ln2
		}

		out = append(out, s)
	}

	return out
}
