package wamp

import "reflect"

// NormalizeDict takes a dict and creates a new normalized dict where all
// map[string]xxx are converted to Dict.  Values that cannot be converted, or
// are already the correct map type, remain the same.
//
// Decoders produce map[string]interface{} or map[interface{}]interface{}
// depending on the wire format, so authenticator results go through here
// before they are read.  The original value is not mutated.
func NormalizeDict(v interface{}) Dict {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Map {
		return nil
	}
	dict := Dict{}
	for _, key := range val.MapKeys() {
		if key.Kind() == reflect.Interface {
			key = key.Elem()
		}
		if key.Kind() != reflect.String {
			continue
		}
		cv := val.MapIndex(key)
		newVal := NormalizeDict(cv.Interface())
		if newVal == nil {
			if cv.Kind() == reflect.Interface && cv.Elem().Kind() == reflect.Slice {
				cv = cv.Elem()
				listType := reflect.TypeOf(List{})
				if cv.Type().ConvertibleTo(listType) {
					cv = cv.Convert(listType)
				}
			}
			dict[key.String()] = cv.Interface()
			continue
		}
		dict[key.String()] = newVal
	}
	return dict
}

// SetOption sets a single option name-value pair in a details dict.
func SetOption(dict Dict, name string, value interface{}) Dict {
	if dict == nil {
		dict = Dict{}
	}
	dict[name] = value
	return dict
}

// CopyDict returns a shallow copy of dict.  A nil dict copies to nil.
func CopyDict(dict Dict) Dict {
	if dict == nil {
		return nil
	}
	c := make(Dict, len(dict))
	for k, v := range dict {
		c[k] = v
	}
	return c
}
