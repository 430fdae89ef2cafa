package property

// EnumProperty restricts a field to a fixed set of labels and stores the
// label's index, keeping the storage form compact. The labels supplied at
// construction are the values handed back to application code.
type EnumProperty struct {
	Base
	forward  map[string]int
	backward []string
}

// NewEnum creates an enum property over the given labels. Label order
// determines the stored index, so appending labels is safe but reordering
// existing ones changes the meaning of stored records.
func NewEnum(labels []string, opts Options) *EnumProperty {
	p := &EnumProperty{
		Base:     newBase(opts),
		forward:  make(map[string]int, len(labels)),
		backward: append([]string(nil), labels...),
	}
	for i, label := range labels {
		p.forward[label] = i
	}
	p.coerce = p.coerceEnum
	p.check = func(v any) bool {
		if v == nil {
			return true
		}
		label, ok := v.(string)
		if !ok {
			return false
		}
		_, ok = p.forward[label]
		return ok
	}
	p.encode = func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		label, ok := v.(string)
		if !ok {
			return nil, typeErr("enum value must be a label, not %T", v)
		}
		i, ok := p.forward[label]
		if !ok {
			return nil, typeErr("label %q is not in the enum set", label)
		}
		return i, nil
	}
	p.decode = func(v any) (any, error) {
		i, ok := isInteger(v)
		if !ok {
			return nil, typeErr("stored enum value must be an index, got %T", v)
		}
		return p.label(i)
	}
	return p
}

// Labels returns the enum's labels in index order.
func (p *EnumProperty) Labels() []string {
	return append([]string(nil), p.backward...)
}

// coerceEnum maps an index back to its label, passes labels and nil
// through, and rejects anything else.
func (p *EnumProperty) coerceEnum(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if i, ok := isInteger(v); ok {
		return p.label(i)
	}
	if label, ok := v.(string); ok {
		return label, nil
	}
	return nil, typeErr("enum accepts a label or an index, not %T", v)
}

func (p *EnumProperty) label(i int64) (string, error) {
	if i < 0 || i >= int64(len(p.backward)) {
		return "", typeErr("enum index %d out of range [0,%d)", i, len(p.backward))
	}
	return p.backward[i], nil
}
