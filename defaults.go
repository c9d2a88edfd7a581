package omnicache

// orDefault fills an unset (zero-valued) option with its fallback.
func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
