// Package namespace coordinates the physical storage namespaces that belong
// to a process: deriving their identifiers, creating them on first use, and
// reconciling them when the owning process is renamed or deleted.
package namespace

import "fmt"

// Kind is a resource kind stored in its own namespace per process.
type Kind string

const (
	KindLists  Kind = "lists"
	KindCards  Kind = "cards"
	KindCharts Kind = "charts"
)

// Kinds returns every kind in reconciliation order.
func Kinds() []Kind {
	return []Kind{KindLists, KindCards, KindCharts}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindLists, KindCards, KindCharts:
		return true
	}
	return false
}

// Derive maps a canonical process name and kind to a namespace identifier.
func Derive(name string, kind Kind) string {
	switch kind {
	case KindCards:
		return name
	case KindLists:
		return name + "_lists"
	case KindCharts:
		return name + "_graphs"
	}
	panic(fmt.Sprintf("namespace: unknown kind %q", kind))
}

// Handle is a resolved reference to a physical namespace.
type Handle struct {
	Namespace string
	Kind      Kind
}
