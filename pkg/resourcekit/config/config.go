package config

import "fmt"

// ResourceSpec declares one resource to open at startup.
type ResourceSpec struct {
	// Name is a human-readable label, unique within the manifest.
	Name string `yaml:"name" json:"name"`

	// URI identifies the resource; its scheme selects the driver.
	URI string `yaml:"uri" json:"uri"`

	// Options carries driver-specific settings.
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
}

// Manifest is the top-level manifest document.
type Manifest struct {
	Resources []ResourceSpec `yaml:"resources" json:"resources"`
}

// Validate checks the manifest for empty or duplicate declarations.
func (m Manifest) Validate() error {
	names := make(map[string]struct{}, len(m.Resources))
	uris := make(map[string]struct{}, len(m.Resources))

	for i, spec := range m.Resources {
		if spec.URI == "" {
			return fmt.Errorf("resource %d (%q): uri is empty", i, spec.Name)
		}
		if spec.Name != "" {
			if _, dup := names[spec.Name]; dup {
				return fmt.Errorf("duplicate resource name %q", spec.Name)
			}
			names[spec.Name] = struct{}{}
		}
		if _, dup := uris[spec.URI]; dup {
			return fmt.Errorf("duplicate resource uri %q", spec.URI)
		}
		uris[spec.URI] = struct{}{}
	}
	return nil
}
