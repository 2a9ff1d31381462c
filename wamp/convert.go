package wamp

import "reflect"

// AsString is an extended type assertion for string.
func AsString(v interface{}) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case URI:
		return string(v), true
	}
	return "", false
}

// AsURI is an extended type assertion for URI.
func AsURI(v interface{}) (URI, bool) {
	s, ok := AsString(v)
	return URI(s), ok
}

// AsDict is an extended type assertion for Dict.
func AsDict(v interface{}) (Dict, bool) {
	n := NormalizeDict(v)
	return n, n != nil
}

// AsList is an extended type assertion for List.
func AsList(v interface{}) (List, bool) {
	switch v := v.(type) {
	case List:
		return v, true
	case []interface{}:
		return List(v), true
	}
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Slice {
		return nil, false
	}
	list := make(List, val.Len())
	for i := 0; i < val.Len(); i++ {
		list[i] = val.Index(i).Interface()
	}
	return list, true
}

// ListToStrings converts a List to a slice of string.  Returns the string
// slice and a boolean indicating if the conversion was successful.
func ListToStrings(list List) ([]string, bool) {
	if len(list) == 0 {
		return nil, true
	}
	strs := make([]string, len(list))
	for i := range list {
		s, ok := AsString(list[i])
		if !ok {
			return nil, false
		}
		strs[i] = s
	}
	return strs, true
}

// OptionString returns named value as string; empty string if missing or not
// string type.
func OptionString(opts Dict, optionName string) string {
	opt, _ := AsString(opts[optionName])
	return opt
}

// OptionURI returns named value as URI; URI("") if missing or not URI type.
func OptionURI(opts Dict, optionName string) URI {
	opt, _ := AsURI(opts[optionName])
	return opt
}

// OptionFlag returns named value as bool; false if missing or not bool type.
func OptionFlag(opts Dict, optionName string) bool {
	opt, _ := opts[optionName].(bool)
	return opt
}
