package omnicache

// Item is the outcome of a single-key lookup. It is constructed fresh per
// call and carries no state beyond its fields; callers must not interpret
// Value when Hit is false.
type Item[V any] struct {
	Key   string
	Value V
	Hit   bool
}

func hit[V any](key string, v V) Item[V] { return Item[V]{Key: key, Value: v, Hit: true} }
func miss[V any](key string) Item[V]     { return Item[V]{Key: key} }
