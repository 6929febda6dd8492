package module

import (
	scriptsdom "screenrate/internal/services/scripts/domain"
)

// Ports exposed by the scripts module
type Ports struct {
	Scripts scriptsdom.ServicePort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
