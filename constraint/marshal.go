package constraint

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	// deterministic encoding; equal constraints serialize to equal bytes
	if cborEnc, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	opts := cbor.DecOptions{DefaultMapType: reflect.TypeOf(map[string]any(nil))}
	if cborDec, err = opts.DecMode(); err != nil {
		panic(err)
	}
}

// Marshal serializes a constraint to its declarative form encoded as cbor.
func Marshal(c Constraint) ([]byte, error) {
	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}
	return cborEnc.Marshal(cfg)
}

// Unmarshal reconstructs a constraint serialized with Marshal.
func Unmarshal(data []byte) (Constraint, error) {
	var cfg Config
	if err := cborDec.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding constraint: %w", err)
	}
	return FromConfig(cfg)
}

// MarshalCondition serializes a condition to its declarative form encoded as
// cbor.
func MarshalCondition(c Condition) ([]byte, error) {
	return cborEnc.Marshal(c.Config())
}

// UnmarshalCondition reconstructs a condition serialized with MarshalCondition.
func UnmarshalCondition(data []byte) (Condition, error) {
	var cfg Config
	if err := cborDec.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding condition: %w", err)
	}
	return ConditionFromConfig(cfg)
}
