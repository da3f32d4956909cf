package schema

type Schema struct {
	Name    string `json:"name"`
	Uid     string `json:"uuid"`
	Columns []ColumnDescriptor
}

func (s *Schema) Column(name string) (ColumnDescriptor, bool) {
	for _, it := range s.Columns {
		if it.Name == name {
			return it, true
		}
	}
	return ColumnDescriptor{}, false
}
