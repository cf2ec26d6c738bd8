package core

// Wildfire role names, the shipped concrete instance.
// Roles are model-declared strings; nothing outside the default
// model hard-codes this set.
const (
	RoleAir    = "air"
	RoleGround = "ground"
	RoleSupply = "supply"
)

// Implementation is one named catalogue entry for a subsystem role.
// It owns a provided vector (functionality) and a required vector
// (resources). Created at catalogue-load time; immutable thereafter.
type Implementation struct {
	// Name is unique within the implementation's role
	Name string
	// Provides holds the functionality the implementation delivers
	Provides Vector
	// Requires holds the resources the implementation consumes
	Requires Vector
}

// Catalogue is an ordered, non-empty collection of implementations
// for one subsystem role. Built once, read-only during solving.
type Catalogue struct {
	// Role is the subsystem role the catalogue serves
	Role string
	// Implementations preserves input order; enumeration order depends on it
	Implementations []*Implementation
}

// Len returns the number of implementations in the catalogue.
func (c *Catalogue) Len() int {
	return len(c.Implementations)
}

// Get returns the implementation with the given name, or nil.
func (c *Catalogue) Get(name string) *Implementation {
	for _, impl := range c.Implementations {
		if impl.Name == name {
			return impl
		}
	}
	return nil
}
