package repository

// Page bounds a list query. Negative values are treated as 0.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) offset() uint64 {
	if p.Skip < 0 {
		return 0
	}
	return uint64(p.Skip)
}

func (p Page) limit() uint64 {
	if p.Limit < 0 {
		return 0
	}
	return uint64(p.Limit)
}
