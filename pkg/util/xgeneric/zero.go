package xgeneric

// ZeroValue returns the zero value of the given type.
func ZeroValue[V any]() V {
	var zero V
	return zero
}
