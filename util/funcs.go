package util

// Map applies f to every element of slice
func Map[A, B any](slice []A, f func(A) B) []B {
	if slice == nil {
		return nil
	}
	res := make([]B, len(slice))
	for i, a := range slice {
		res[i] = f(a)
	}
	return res
}
