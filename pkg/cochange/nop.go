package cochange

// nopModel skips calculation entirely; Φ and Π stay 0×0 and the ripple
// vector is empty. Useful for dry-run pipeline wiring and benchmarking
// intake/orchestration cost in isolation from the matrix math.
type nopModel struct{}

func (nopModel) calculateFreqs(_ *Changes, _ Options) *CCMatrix {
	return newCCMatrix(nil, nil, "", "")
}

func (nopModel) calculateProbs(_ *Changes, _ *CCMatrix, _ Options) *CCMatrix {
	return newCCMatrix(nil, nil, "", "")
}

func (nopModel) predict(_ *CoChanges, _ []string) map[string]float64 {
	return map[string]float64{}
}
