package hcl

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
)

// fromCty converts an evaluated manifest value into its plain Go
// equivalent: string, bool, int64 or float64, []any, map[string]any.
// Whole numbers come back as int64 so downstream decoding into integer
// config fields round-trips without precision surprises.
func fromCty(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil

	case ty == cty.Bool:
		return val.True(), nil

	case ty == cty.Number:
		bf := val.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return i, nil
		}
		f, _ := bf.Float64()
		return f, nil

	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		elems := val.AsValueSlice()
		out := make([]any, 0, len(elems))
		for _, elem := range elems {
			gv, err := fromCty(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, gv)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		elems := val.AsValueMap()
		out := make(map[string]any, len(elems))
		for name, elem := range elems {
			gv, err := fromCty(elem)
			if err != nil {
				return nil, err
			}
			out[name] = gv
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
