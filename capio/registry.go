package capio

import "sort"

// Registry holds the set of file types and encapsulations a concrete
// Source/Sink implementation supports, for the CLI's -F/-T
// empty-argument enumeration and --help text.
type Registry struct {
	types  map[TypeTag]string
	encaps map[EncapTag]string
}

func NewRegistry() *Registry {
	return &Registry{
		types:  make(map[TypeTag]string),
		encaps: make(map[EncapTag]string),
	}
}

func (r *Registry) RegisterType(tag TypeTag, name string) {
	r.types[tag] = name
}

func (r *Registry) RegisterEncap(tag EncapTag, name string) {
	r.encaps[tag] = name
}

// ListTypes returns all registered types sorted by name, per §6
// list_types().
func (r *Registry) ListTypes() []TypeInfo {
	out := make([]TypeInfo, 0, len(r.types))
	for tag, name := range r.types {
		out = append(out, TypeInfo{Tag: tag, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ListEncaps returns all registered encapsulations sorted by name, per
// §6 list_encaps().
func (r *Registry) ListEncaps() []EncapInfo {
	out := make([]EncapInfo, 0, len(r.encaps))
	for tag, name := range r.encaps {
		out = append(out, EncapInfo{Tag: tag, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TypeByName looks up a TypeTag by its CLI -F name, for resolving a
// user-supplied type flag.
func (r *Registry) TypeByName(name string) (TypeTag, bool) {
	for tag, n := range r.types {
		if n == name {
			return tag, true
		}
	}
	return 0, false
}

// EncapByName looks up an EncapTag by its CLI -T name.
func (r *Registry) EncapByName(name string) (EncapTag, bool) {
	for tag, n := range r.encaps {
		if n == name {
			return tag, true
		}
	}
	return 0, false
}
