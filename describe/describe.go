// Package describe builds the "ClassName 'object-name'" labels used to
// identify connections, transactions, and similar named objects in error
// messages.
package describe

// Named is implemented by objects that can describe themselves: a class
// name shared by all instances and an optional per-instance name.
type Named interface {
	ClassName() string
	Name() string
}

// Append appends a label for the given class and object name to buf and
// returns the extended slice.
//
// With an empty objName the label is className alone; otherwise it is
// className, a space, and the object name in single quotes. Existing
// contents of buf are preserved. Capacity is grown at most once, sized for
// the new content plus headroom, so a caller that knows it will append more
// text can avoid a second allocation.
func Append(buf []byte, className, objName string, headroom int) []byte {
	budget := len(buf) + len(className)
	if objName != "" {
		budget += 3 + len(objName)
	}
	if cap(buf) < budget+headroom {
		grown := make([]byte, len(buf), budget+headroom)
		copy(grown, buf)
		buf = grown
	}
	buf = append(buf, className...)
	if objName != "" {
		buf = append(buf, ' ', '\'')
		buf = append(buf, objName...)
		buf = append(buf, '\'')
	}
	return buf
}

// Label returns a fresh standalone label for n.
func Label(n Named) string {
	name := n.Name()
	if name == "" {
		return n.ClassName()
	}
	return string(Append(nil, n.ClassName(), name, 0))
}
