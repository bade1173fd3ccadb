package sales

// Clean drops every record missing a Date, Product or Sales value and returns
// how many were removed. Running it again on a clean table removes nothing.
func (t *Table) Clean() (int, error) {
	if !t.hasProduct {
		return 0, &SchemaError{Source: t.Source, Missing: []string{t.names.Product}, Found: t.Columns}
	}

	before := len(t.Records)
	kept := t.Records[:0]
	for _, r := range t.Records {
		if r.Complete() {
			kept = append(kept, r)
		}
	}
	// Clear the tail so dropped records can be collected.
	for i := len(kept); i < before; i++ {
		t.Records[i] = Record{}
	}
	t.Records = kept

	return before - len(kept), nil
}
