package model

// Source tells where a repository result came from.
type Source string

const (
	SourceLive  Source = "LIVE"
	SourceCache Source = "CACHE"
)

// Fetched carries a repository result together with its provenance.
type Fetched[T any] struct {
	Data   T      `json:"data"`
	Source Source `json:"source"`
}

func Live[T any](data T) *Fetched[T] {
	return &Fetched[T]{Data: data, Source: SourceLive}
}

func Cached[T any](data T) *Fetched[T] {
	return &Fetched[T]{Data: data, Source: SourceCache}
}

func (f *Fetched[T]) FromCache() bool {
	return f != nil && f.Source == SourceCache
}
