package placement

import (
	"strconv"
	"sync"

	"popup-designer/internal/designer/models"
)

// ============================================================
// Mechanism registry
// ============================================================

var (
	registryMu sync.RWMutex
	registry   = map[models.MechanismKind]Mechanism{}
)

// Register makes m available to Derive, replacing any variant of the same kind.
func Register(m Mechanism) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[m.Kind()] = m
}

func Lookup(kind models.MechanismKind) (Mechanism, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	m, ok := registry[kind]
	return m, ok
}

// registered lists the kinds with a variant, in display order.
func registered() []models.MechanismKind {
	var out []models.MechanismKind
	for _, k := range models.Mechanisms() {
		if _, ok := Lookup(k); ok {
			out = append(out, k)
		}
	}
	return out
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
