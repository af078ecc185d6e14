package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/pkg/errors"
)

var jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()

// Fingerprint computes a deterministic SHA256 hex digest of v.
//
// Map keys are sorted so their order never changes the digest. Structs are
// hashed through their JSON form when they implement json.Marshaler, and
// field by field otherwise, unexported fields included. Values without a
// data representation (funcs, channels, NaN and infinite floats) are hashed
// through a textual fallback, so two of them printing the same text collide.
// The digest is a cache key, not a security primitive.
func Fingerprint(v any) (string, error) {
	cnv := &canonicalizer{seen: make(map[uintptr]struct{})}

	data, err := json.Marshal(cnv.value(reflect.ValueOf(v)))
	if err != nil {
		return "", errors.Wrap(err, "unable to serialise fingerprint payload")
	}

	hash := sha256.Sum256(data)

	return hex.EncodeToString(hash[:]), nil
}

// canonicalizer turns any value into a tree of maps, slices and scalars
// that encoding/json serialises with sorted keys.
type canonicalizer struct {
	// seen holds the pointers on the current path, to cut cycles.
	seen map[uintptr]struct{}
}

func (cnv *canonicalizer) value(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}

	if v.CanInterface() && v.Type().Implements(jsonMarshalerType) {
		if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
			return nil
		}

		data, err := json.Marshal(v.Interface())
		if err == nil {
			return json.RawMessage(data)
		}
	}

	switch v.Kind() {
	case reflect.Bool:
		return v.Bool()
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}

		return f
	case reflect.Complex64, reflect.Complex128:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 128)
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}

		return cnv.value(v.Elem())
	case reflect.Pointer:
		if v.IsNil() {
			return nil
		}

		ptr := v.Pointer()
		if _, ok := cnv.seen[ptr]; ok {
			return fmt.Sprintf("<cycle %s>", v.Type())
		}
		cnv.seen[ptr] = struct{}{}
		defer delete(cnv.seen, ptr)

		return cnv.value(v.Elem())
	case reflect.Map:
		if v.IsNil() {
			return nil
		}

		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[cnv.key(iter.Key())] = cnv.value(iter.Value())
		}

		return out
	case reflect.Slice:
		if v.IsNil() {
			return nil
		}

		return cnv.list(v)
	case reflect.Array:
		return cnv.list(v)
	case reflect.Struct:
		out := make(map[string]any, v.NumField())
		for i := 0; i < v.NumField(); i++ {
			out[v.Type().Field(i).Name] = cnv.value(v.Field(i))
		}

		return out
	default:
		// funcs, channels and unsafe pointers only have an identity.
		return fmt.Sprintf("%s(%#x)", v.Type(), v.Pointer())
	}
}

func (cnv *canonicalizer) list(v reflect.Value) []any {
	out := make([]any, v.Len())
	for i := range out {
		out[i] = cnv.value(v.Index(i))
	}

	return out
}

// key renders a map key as text, JSON object keys being strings.
func (cnv *canonicalizer) key(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}

	data, err := json.Marshal(cnv.value(k))
	if err != nil {
		return k.String()
	}

	return string(data)
}
