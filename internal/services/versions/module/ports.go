package module

import (
	"screenrate/internal/services/versions/domain"
)

// Ports exposes the versions service surface to sibling modules
type Ports struct {
	Versions domain.ServicePort
}

// Ports returns the module's ports
func (m *Module) Ports() any { return m.ports }
