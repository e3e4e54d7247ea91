package objcache

// LoadResult is delivered exactly once per Load.
type LoadResult[V any] struct {
	Value    V
	Found    bool
	Location Location // tier that produced the result; None when no tier was asked
	Err      error
}

// Result is delivered once per requested tier by Save and Remove.
type Result struct {
	Location Location
	Err      error
}

func (r Result) OK() bool { return r.Err == nil }

// ExistsResult is delivered once per requested tier by Exists.
type ExistsResult struct {
	Location Location
	Exists   bool
	Err      error
}
