package trigger

import "wiki-triggers/internal/domain/entity"

// FieldSpec maps a trigger's field names to their default values.
type FieldSpec map[string]string

// Fields holds the resolved field values for one invocation.
type Fields map[string]string

// testSentinels are default values that mark a field as carrying test
// configuration rather than a production fallback. An explicitly empty
// value for such a field is passed through instead of being silently
// replaced by the default, so test and demo invocations can exercise the
// empty-field paths (the hashtag trigger's "all hashtags" mode relies on
// this).
var testSentinels = map[string]struct{}{
	"test":    {},
	"Coffee":  {},
	"ClueBot": {},
}

func isSentinel(value string) bool {
	_, ok := testSentinels[value]
	return ok
}

// Resolve validates the supplied trigger fields against the field set.
// Validation is all-or-nothing: the first field that resolves empty fails
// the whole request before any fetch happens.
//
// Resolution rules, per field:
//   - a non-empty supplied value is used as-is
//   - an absent key falls back to the default, unless the default is a
//     test sentinel
//   - an explicitly empty value is accepted only when the default is a
//     test sentinel; otherwise it is a validation error
func (spec FieldSpec) Resolve(supplied map[string]string) (Fields, error) {
	resolved := make(Fields, len(spec))
	for name, def := range spec {
		value, present := supplied[name]
		if !present && !isSentinel(def) {
			value = def
		}
		if value == "" && !(present && isSentinel(def)) {
			return nil, &entity.ValidationError{Field: name}
		}
		resolved[name] = value
	}
	return resolved, nil
}
