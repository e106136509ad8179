package expression

// Table is a table reference, optionally schema-qualified. It does not
// implement sql.Expression: a FROM target is never a projected value.
type Table struct {
	Schema string
	Name   string
}

// NewTable returns an unqualified table reference.
func NewTable(name string) *Table {
	return &Table{Name: name}
}

// NewQualifiedTable returns a schema-qualified table reference.
func NewQualifiedTable(schema, name string) *Table {
	return &Table{Schema: schema, Name: name}
}

func (t *Table) String() string {
	if t.Schema != "" {
		return t.Schema + "." + t.Name
	}
	return t.Name
}

func (t *Table) Clone() *Table {
	cp := *t
	return &cp
}
