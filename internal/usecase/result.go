package usecase

// DataSource tells a caller where returned data came from.
type DataSource string

const (
	// SourceRemote is data the backend returned or accepted.
	SourceRemote DataSource = "remote"
	// SourceCache is the last snapshot stored locally.
	SourceCache DataSource = "cache"
	// SourceSeed is the built-in default dataset.
	SourceSeed DataSource = "seed"
	// SourceLocal is a record written only to the local cache because the
	// backend could not be reached.
	SourceLocal DataSource = "local"
)

type Result[T any] struct {
	Data   T          `json:"data"`
	Source DataSource `json:"source"`
}

func (r Result[T]) Degraded() bool {
	return r.Source != SourceRemote
}
