package constraint

import (
	"fmt"
)

// Config is the declarative form of a condition or constraint: a mapping with
// a mandatory "type" key naming the variant plus the variant's fields. It is
// also the serialization format; see Marshal and Unmarshal.
type Config map[string]any

// conditionDecoders is the closed dispatch table from condition tag to
// decoder. Variants are enumerated statically so the set is auditable.
var conditionDecoders = map[ConditionType]func(Config) (Condition, error){
	ConditionThreshold:    decodeThreshold,
	ConditionSubSelection: decodeSubSelection,
}

// constraintDecoders is the closed dispatch table from constraint tag to
// decoder.
var constraintDecoders = map[Type]func(Config) (Constraint, error){
	TypeCustom:                decodeCustom,
	TypeExclude:               decodeExclude,
	TypeNoLabelDuplicates:     decodeNoLabelDuplicates,
	TypeLinkedParameters:      decodeLinkedParameters,
	TypeSum:                   decodeSum,
	TypeProduct:               decodeProduct,
	TypePermutationInvariance: decodePermutationInvariance,
	TypeDependencies:          decodeDependencies,
}

// FromConfig builds a constraint from its declarative form. An unknown "type"
// fails naming the valid tags.
func FromConfig(cfg Config) (Constraint, error) {
	tag, err := cfgString(cfg, "type")
	if err != nil {
		return nil, err
	}
	dec, ok := constraintDecoders[Type(tag)]
	if !ok {
		return nil, fmt.Errorf("%q is not a recognized constraint type, valid types are %v", tag, Order)
	}
	return dec(cfg)
}

// ConditionFromConfig builds a condition from its declarative form.
func ConditionFromConfig(cfg Config) (Condition, error) {
	tag, err := cfgString(cfg, "type")
	if err != nil {
		return nil, err
	}
	dec, ok := conditionDecoders[ConditionType(tag)]
	if !ok {
		return nil, fmt.Errorf("%q is not a recognized condition type, valid types are %v",
			tag, []ConditionType{ConditionThreshold, ConditionSubSelection})
	}
	return dec(cfg)
}

func decodeThreshold(cfg Config) (Condition, error) {
	threshold, err := cfgFloat(cfg, "threshold")
	if err != nil {
		return nil, err
	}
	operator, err := cfgString(cfg, "operator")
	if err != nil {
		return nil, err
	}
	if _, ok := cfg["tolerance"]; ok {
		tolerance, err := cfgFloat(cfg, "tolerance")
		if err != nil {
			return nil, err
		}
		return NewThresholdWithTolerance(threshold, operator, tolerance)
	}
	return NewThreshold(threshold, operator)
}

func decodeSubSelection(cfg Config) (Condition, error) {
	selection, err := cfgStrings(cfg, "selection")
	if err != nil {
		return nil, err
	}
	return NewSubSelection(selection)
}

func decodeCustom(cfg Config) (Constraint, error) {
	params, err := cfgStrings(cfg, "parameters")
	if err != nil {
		return nil, err
	}
	name, err := cfgString(cfg, "validator")
	if err != nil {
		return nil, err
	}
	fn, ok := GetRegisteredValidator(name)
	if !ok {
		return nil, fmt.Errorf("validator %q is not registered, call RegisterValidator before decoding", name)
	}
	return NewCustom(params, fn)
}

func decodeExclude(cfg Config) (Constraint, error) {
	params, err := cfgStrings(cfg, "parameters")
	if err != nil {
		return nil, err
	}
	condCfgs, err := cfgConfigs(cfg, "conditions")
	if err != nil {
		return nil, err
	}
	conds := make([]Condition, len(condCfgs))
	for i, cc := range condCfgs {
		if conds[i], err = ConditionFromConfig(cc); err != nil {
			return nil, err
		}
	}
	combiner := CombinerAnd
	if _, ok := cfg["combiner"]; ok {
		s, err := cfgString(cfg, "combiner")
		if err != nil {
			return nil, err
		}
		combiner = Combiner(s)
	}
	return NewExclude(params, conds, combiner)
}

func decodeNoLabelDuplicates(cfg Config) (Constraint, error) {
	params, err := cfgStrings(cfg, "parameters")
	if err != nil {
		return nil, err
	}
	return NewNoLabelDuplicates(params)
}

func decodeLinkedParameters(cfg Config) (Constraint, error) {
	params, err := cfgStrings(cfg, "parameters")
	if err != nil {
		return nil, err
	}
	return NewLinkedParameters(params)
}

func decodeSum(cfg Config) (Constraint, error) {
	params, cond, err := decodeReduceFields(cfg)
	if err != nil {
		return nil, err
	}
	return NewSum(params, cond)
}

func decodeProduct(cfg Config) (Constraint, error) {
	params, cond, err := decodeReduceFields(cfg)
	if err != nil {
		return nil, err
	}
	return NewProduct(params, cond)
}

func decodeReduceFields(cfg Config) ([]string, *ThresholdCondition, error) {
	params, err := cfgStrings(cfg, "parameters")
	if err != nil {
		return nil, nil, err
	}
	condCfg, err := cfgConfig(cfg, "condition")
	if err != nil {
		return nil, nil, err
	}
	cond, err := ConditionFromConfig(condCfg)
	if err != nil {
		return nil, nil, err
	}
	threshold, ok := cond.(*ThresholdCondition)
	if !ok {
		return nil, nil, fmt.Errorf("field \"condition\" must be a %s condition, got %q", ConditionThreshold, cond.ConditionType())
	}
	return params, threshold, nil
}

func decodePermutationInvariance(cfg Config) (Constraint, error) {
	params, err := cfgStrings(cfg, "parameters")
	if err != nil {
		return nil, err
	}
	var deps *Dependencies
	if _, ok := cfg["dependencies"]; ok {
		depCfg, err := cfgConfig(cfg, "dependencies")
		if err != nil {
			return nil, err
		}
		dec, err := decodeDependencies(depCfg)
		if err != nil {
			return nil, err
		}
		deps = dec.(*Dependencies)
	}
	return NewPermutationInvariance(params, deps)
}

func decodeDependencies(cfg Config) (Constraint, error) {
	params, err := cfgStrings(cfg, "parameters")
	if err != nil {
		return nil, err
	}
	condCfgs, err := cfgConfigs(cfg, "conditions")
	if err != nil {
		return nil, err
	}
	conds := make([]Condition, len(condCfgs))
	for i, cc := range condCfgs {
		if conds[i], err = ConditionFromConfig(cc); err != nil {
			return nil, err
		}
	}
	affected, err := cfgStringGroups(cfg, "affected_parameters")
	if err != nil {
		return nil, err
	}
	return NewDependencies(params, conds, affected)
}

// field extraction
//
// decoded configs come from Go literals, yaml.v3 or cbor; the helpers accept
// the value shapes all three produce.

func cfgString(cfg Config, key string) (string, error) {
	v, ok := cfg[key]
	if !ok {
		return "", fmt.Errorf("missing field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q must be a string, got %v (%T)", key, v, v)
	}
	return s, nil
}

func cfgFloat(cfg Config, key string) (float64, error) {
	v, ok := cfg[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("field %q must be numeric, got %v (%T)", key, v, v)
	}
}

func cfgStrings(cfg Config, key string) ([]string, error) {
	v, ok := cfg[key]
	if !ok {
		return nil, fmt.Errorf("missing field %q", key)
	}
	return toStrings(v, key)
}

func toStrings(v any, key string) ([]string, error) {
	switch x := v.(type) {
	case []string:
		return x, nil
	case []any:
		res := make([]string, len(x))
		for i, e := range x {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("field %q must contain strings, got %v (%T)", key, e, e)
			}
			res[i] = s
		}
		return res, nil
	default:
		return nil, fmt.Errorf("field %q must be a string list, got %v (%T)", key, v, v)
	}
}

func cfgStringGroups(cfg Config, key string) ([][]string, error) {
	v, ok := cfg[key]
	if !ok {
		return nil, fmt.Errorf("missing field %q", key)
	}
	switch x := v.(type) {
	case [][]string:
		return x, nil
	case []any:
		res := make([][]string, len(x))
		for i, e := range x {
			g, err := toStrings(e, key)
			if err != nil {
				return nil, err
			}
			res[i] = g
		}
		return res, nil
	default:
		return nil, fmt.Errorf("field %q must be a list of string lists, got %v (%T)", key, v, v)
	}
}

func cfgConfig(cfg Config, key string) (Config, error) {
	v, ok := cfg[key]
	if !ok {
		return nil, fmt.Errorf("missing field %q", key)
	}
	return toConfig(v, key)
}

func toConfig(v any, key string) (Config, error) {
	switch x := v.(type) {
	case Config:
		return x, nil
	case map[string]any:
		return Config(x), nil
	case map[any]any:
		res := make(Config, len(x))
		for k, e := range x {
			s, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("field %q must have string keys, got %v (%T)", key, k, k)
			}
			res[s] = e
		}
		return res, nil
	default:
		return nil, fmt.Errorf("field %q must be a mapping, got %v (%T)", key, v, v)
	}
}

func cfgConfigs(cfg Config, key string) ([]Config, error) {
	v, ok := cfg[key]
	if !ok {
		return nil, fmt.Errorf("missing field %q", key)
	}
	switch x := v.(type) {
	case []Config:
		return x, nil
	case []any:
		res := make([]Config, len(x))
		for i, e := range x {
			c, err := toConfig(e, key)
			if err != nil {
				return nil, err
			}
			res[i] = c
		}
		return res, nil
	default:
		return nil, fmt.Errorf("field %q must be a list of mappings, got %v (%T)", key, v, v)
	}
}
