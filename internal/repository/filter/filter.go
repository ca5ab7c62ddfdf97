package filter

type Direction int

const (
	Asc Direction = iota
	Desc
)

type Where struct {
	Path  string
	Op    string
	Value interface{}
}

type OrderBy struct {
	Path      string
	Direction Direction
}
