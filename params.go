package htmltopdf

import "slices"

// Param is a single wkhtmltopdf option. A Param without values is a
// boolean switch (Flag); with values it is FlagWithValues.
type Param struct {
	Name   string
	Values []string
}

// Flag returns a switch such as --grayscale.
func Flag(name string) Param {
	return Param{Name: name}
}

// FlagWithValues returns an option followed by its values,
// such as --page-size A4.
func FlagWithValues(name string, values ...string) Param {
	return Param{Name: name, Values: slices.Clone(values)}
}

// IsFlag reports whether p is a switch without values.
func (p Param) IsFlag() bool {
	return len(p.Values) == 0
}

// ParamSet is an insertion-ordered set of Params keyed by name.
// The zero value is ready to use.
type ParamSet struct {
	params []Param
	index  map[string]int
}

// Set adds p, or replaces the values of an existing param with the same
// name without moving it.
func (s *ParamSet) Set(p Param) {
	if i, ok := s.index[p.Name]; ok {
		s.params[i] = p
		return
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	s.index[p.Name] = len(s.params)
	s.params = append(s.params, p)
}

// Get returns the param registered under name.
func (s *ParamSet) Get(name string) (Param, bool) {
	i, ok := s.index[name]
	if !ok {
		return Param{}, false
	}
	return s.params[i], true
}

// Len returns the number of params.
func (s *ParamSet) Len() int {
	return len(s.params)
}

// Params returns a copy of the params in insertion order.
func (s *ParamSet) Params() []Param {
	return slices.Clone(s.params)
}

// AppendArgs appends each name followed by its values to argv.
func (s *ParamSet) AppendArgs(argv []string) []string {
	for _, p := range s.params {
		argv = append(argv, p.Name)
		argv = append(argv, p.Values...)
	}
	return argv
}

// Clone returns an independent copy of s.
func (s *ParamSet) Clone() ParamSet {
	c := ParamSet{
		params: make([]Param, len(s.params)),
		index:  make(map[string]int, len(s.index)),
	}
	for i, p := range s.params {
		c.params[i] = Param{Name: p.Name, Values: slices.Clone(p.Values)}
	}
	for k, v := range s.index {
		c.index[k] = v
	}
	return c
}
