package catalog

// Cursor is a typed, lazily decoded view over a Rows stream. It is a single
// forward pass; to iterate again, issue a new List call.
//
//	cur, err := tasks.List(ctx, "^ETL_")
//	if err != nil { ... }
//	defer cur.Close()
//	for cur.Next() {
//		task := cur.Entity()
//		...
//	}
//	if err := cur.Err(); err != nil { ... }
type Cursor[A any] struct {
	rows    Rows
	current *Entity[A]
	err     error
}

func newCursor[A any](rows Rows) *Cursor[A] {
	return &Cursor[A]{rows: rows}
}

// Next advances to the next entity, decoding its attributes. It returns
// false when the stream is exhausted or a decode error occurred; check Err
// afterwards.
func (c *Cursor[A]) Next() bool {
	if c.err != nil {
		return false
	}
	if !c.rows.Next() {
		c.err = c.rows.Err()
		return false
	}
	raw := c.rows.Entity()
	attrs, err := DecodeRecord[A](raw.Attributes)
	if err != nil {
		c.err = err
		return false
	}
	c.current = &Entity[A]{
		Name:        raw.Name,
		Description: raw.Description,
		Attributes:  attrs,
		Status:      raw.Status,
	}
	return true
}

// Entity returns the current entity. Only valid after a true Next.
func (c *Cursor[A]) Entity() *Entity[A] { return c.current }

// Err returns the first error encountered while iterating, if any.
func (c *Cursor[A]) Err() error { return c.err }

// Close releases the underlying stream. Safe to call more than once.
func (c *Cursor[A]) Close() error { return c.rows.Close() }

// Collect drains the cursor into a slice and closes it.
func (c *Cursor[A]) Collect() ([]*Entity[A], error) {
	defer c.Close()
	var out []*Entity[A]
	for c.Next() {
		out = append(out, c.current)
	}
	if c.err != nil {
		return nil, c.err
	}
	return out, nil
}
