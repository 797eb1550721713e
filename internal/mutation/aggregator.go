package mutation

// Aggregate folds per-mutant outcomes into a Result. The counting lives here
// and nowhere else, so killed + survived == total holds by construction.
func Aggregate(sourcePath string, runs []Run) *Result {
	result := &Result{
		SourcePath: sourcePath,
		Total:      len(runs),
		Details:    runs,
	}

	for _, run := range runs {
		if run.Killed {
			result.Killed++
		}
	}
	result.Survived = result.Total - result.Killed

	return result
}
