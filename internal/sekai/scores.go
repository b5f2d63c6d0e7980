package sekai

// ExtractScores pulls the score of each target out of a ranking
// snapshot. Keys of the result are the targets' labels; targets absent
// from the snapshot simply have no entry. When a target matches several
// entries the last one in ranking order wins.
func ExtractScores(rankings []Ranking, targets []Target) map[string]int64 {
	result := make(map[string]int64, len(targets))
	for _, entry := range rankings {
		for _, t := range targets {
			if matches(entry, t) {
				result[t.Label()] = entry.Score
			}
		}
	}
	return result
}

func matches(entry Ranking, t Target) bool {
	if t.Rank > 0 {
		return entry.Rank == t.Rank
	}
	return t.UserName != "" && entry.UserName == t.UserName
}
