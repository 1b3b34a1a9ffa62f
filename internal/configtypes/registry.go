package configtypes

import (
	"fmt"
	"sort"

	"github.com/healthcover/service-approval-api/internal/models"
)

// Registry holds the value type handlers and the type bound to each well-known key
type Registry struct {
	handlers map[string]ValueTypeHandler
	keys     map[string]string
}

var (
	// defaultRegistry is the global registry singleton
	defaultRegistry *Registry
)

// init registers all built-in handlers and key bindings at package init time
func init() {
	defaultRegistry = NewRegistry()

	_ = defaultRegistry.Register(&StringValueHandler{})
	_ = defaultRegistry.Register(&MoneyValueHandler{})

	_ = defaultRegistry.BindKey(models.ConfigKeyMinPrescriptionAmount, "money")
}

// NewRegistry creates a new registry instance
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]ValueTypeHandler),
		keys:     make(map[string]string),
	}
}

// Register adds a handler to the registry
// Returns error if a handler for this type is already registered
func (r *Registry) Register(handler ValueTypeHandler) error {
	typeStr := handler.GetType()
	if _, exists := r.handlers[typeStr]; exists {
		return fmt.Errorf("handler for type %q already registered", typeStr)
	}
	r.handlers[typeStr] = handler
	return nil
}

// Get retrieves a handler by type string
func (r *Registry) Get(typeStr string) (ValueTypeHandler, error) {
	handler, exists := r.handlers[typeStr]
	if !exists {
		return nil, fmt.Errorf("no handler registered for value type %q", typeStr)
	}
	return handler, nil
}

// GetAllTypes returns the registered types in name order
func (r *Registry) GetAllTypes() []string {
	types := make([]string, 0, len(r.handlers))
	for typeStr := range r.handlers {
		types = append(types, typeStr)
	}
	sort.Strings(types)
	return types
}

// BindKey declares the value type of a configuration key
func (r *Registry) BindKey(key, typeStr string) error {
	if _, err := r.Get(typeStr); err != nil {
		return err
	}
	r.keys[key] = typeStr
	return nil
}

// TypeOf returns the type bound to key, "string" when none is bound
func (r *Registry) TypeOf(key string) string {
	if typeStr, ok := r.keys[key]; ok {
		return typeStr
	}
	return "string"
}

// Prepare validates value against the type bound to key and returns the form to persist.
// Keys without a binding accept any value unchanged.
func (r *Registry) Prepare(key, value string) (string, error) {
	typeStr, bound := r.keys[key]
	if !bound {
		return value, nil
	}

	handler, err := r.Get(typeStr)
	if err != nil {
		return "", err
	}
	if err := handler.Validate(value); err != nil {
		return "", fmt.Errorf("%s must be of type %s: %w", key, typeStr, err)
	}
	return handler.Normalize(value), nil
}

// Default returns the global registry singleton
func Default() *Registry {
	return defaultRegistry
}
