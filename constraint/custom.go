package constraint

import (
	"fmt"
	"reflect"
	"runtime"
	"slices"
	"sync"

	"github.com/winnowlab/winnow/logger"
	"github.com/winnowlab/winnow/table"
)

// Validator decides whether a row is valid. It receives the row's cells
// restricted to the constraint's parameters, in parameter order.
type Validator func(values []table.Value) bool

var (
	validatorRegistry  = make(map[string]Validator)
	validatorRegistryM sync.RWMutex
)

// RegisterValidator registers validator functions in the global registry under
// their derived name, making CUSTOM constraints reconstructible from their
// declarative form.
func RegisterValidator(fns ...Validator) {
	validatorRegistryM.Lock()
	defer validatorRegistryM.Unlock()
	for _, fn := range fns {
		name := ValidatorName(fn)
		if _, ok := validatorRegistry[name]; ok {
			log := logger.Logger()
			log.Debug().Str("name", name).Msg("validator registered multiple times")
			continue
		}
		validatorRegistry[name] = fn
	}
}

// GetRegisteredValidator returns the validator registered under name, if any.
func GetRegisteredValidator(name string) (Validator, bool) {
	validatorRegistryM.RLock()
	defer validatorRegistryM.RUnlock()
	fn, ok := validatorRegistry[name]
	return fn, ok
}

// ValidatorName returns the derived name of a validator function reference:
// its fully qualified function name.
func ValidatorName(fn Validator) string {
	fnptr := reflect.ValueOf(fn).Pointer()
	return runtime.FuncForPC(fnptr).Name()
}

// Custom flags rows for which a user-supplied predicate returns false.
// The predicate sees only the cells of the constraint's parameters.
type Custom struct {
	Params    []string
	Validator Validator
}

// NewCustom returns a custom constraint around the given predicate.
func NewCustom(parameters []string, validator Validator) (*Custom, error) {
	if err := validateParameters(parameters); err != nil {
		return nil, err
	}
	if validator == nil {
		return nil, fmt.Errorf("custom constraint needs a validator function")
	}
	return &Custom{Params: slices.Clone(parameters), Validator: validator}, nil
}

func (c *Custom) ConstraintType() Type { return TypeCustom }

func (c *Custom) Parameters() []string { return slices.Clone(c.Params) }

// GetInvalid implements Constraint.
func (c *Custom) GetInvalid(t *table.Table) ([]table.RowID, error) {
	var invalid []table.RowID
	for i := 0; i < t.NumRows(); i++ {
		cells, err := t.Cells(i, c.Params)
		if err != nil {
			return nil, err
		}
		if !c.Validator(cells) {
			invalid = append(invalid, t.IDAt(i))
		}
	}
	return invalid, nil
}

// Config implements Constraint. The validator is referenced by its registered
// name; an unregistered validator cannot be serialized.
func (c *Custom) Config() (Config, error) {
	name := ValidatorName(c.Validator)
	if _, ok := GetRegisteredValidator(name); !ok {
		return nil, fmt.Errorf("validator %q is not registered, call RegisterValidator before serializing", name)
	}
	return Config{
		"type":       string(TypeCustom),
		"parameters": slices.Clone(c.Params),
		"validator":  name,
	}, nil
}
