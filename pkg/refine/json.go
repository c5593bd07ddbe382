package refine

import (
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/refine-lang/refine/internal/value"
)

// InstancesAsJSON projects every live instance of typeName to a JSON
// array, one object per instance with "typeName" and "payload" keys,
// in insertion order. Built with sjson rather than encoding/json so a
// caller can gjson-query the result (e.g. `#.payload`) without ever
// unmarshaling into a Go struct — see cmd/refine's `run
// --instances-json` flag.
func (e *Engine) InstancesAsJSON(typeName string) (string, error) {
	insts := e.reg.Instances(typeName)
	out := "[]"
	var err error
	for i, inst := range insts {
		out, err = sjson.Set(out, fieldPath(i, "typeName"), inst.TypeName)
		if err != nil {
			return "", err
		}
		out, err = sjson.Set(out, fieldPath(i, "payload"), payloadJSON(inst.Payload))
		if err != nil {
			return "", err
		}
	}
	return out, nil
}

func fieldPath(i int, field string) string {
	return strconv.Itoa(i) + "." + field
}

func payloadJSON(v value.Value) any {
	switch p := v.(type) {
	case value.String:
		return p.Val
	case value.Int:
		return p.Val
	case value.Bool:
		return p.Val
	default:
		return v.String()
	}
}

// QueryInstancesJSON is a thin gjson convenience over InstancesAsJSON,
// letting a caller pull one field path (e.g. "#.payload") out of the
// projected instance list without a second round trip through sjson.
func (e *Engine) QueryInstancesJSON(typeName, path string) (gjson.Result, error) {
	blob, err := e.InstancesAsJSON(typeName)
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.Get(blob, path), nil
}
