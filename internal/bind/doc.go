// Package bind resolves fixture values by declared name and applies them to
// test and hook functions.
//
// Go cannot recover parameter names at run time, so every callable carries an
// explicit list of the fixture names it needs, in parameter order:
//
//	c, err := bind.New(func(db *sql.DB, user string) error { ... }, "db", "user")
//	out, err := c.Apply(bind.Context{"db": db, "user": "ada"})
package bind
