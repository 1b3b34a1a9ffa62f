package configtypes

// ValueSpec describes a value type for documentation and the CLI
type ValueSpec struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

// ValueTypeHandler defines how values of one configuration type are checked and stored
type ValueTypeHandler interface {
	// GetType returns the type string this handler manages (e.g., "string", "money")
	GetType() string

	// Validate reports why value is not acceptable for the type
	Validate(value string) error

	// Normalize returns the form persisted for an accepted value
	Normalize(value string) string

	// GetSpec returns the description of the type
	GetSpec() ValueSpec
}
