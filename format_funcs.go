package validatron

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// uuidFunc validates that a string field holds a standard RFC 4122 UUID.
// Length and hyphen positions are checked before parsing to reject malformed
// input cheaply.
var uuidFunc = Func{
	Name: KindUUID,
	Bind: func(ft reflect.Type, param any) (Applier, error) {
		if param != nil {
			return nil, fmt.Errorf("uuid: takes no parameter, got %v", param)
		}
		elem, optional := derefType(ft)
		if elem.Kind() != reflect.String {
			return nil, fmt.Errorf("uuid: requires a string field, got %s", ft)
		}

		return func(v reflect.Value) *Failure {
			v, present := unwrap(v, optional)
			if !present {
				return nil
			}
			s := v.String()
			if !looksLikeUUID(s) {
				return failf(KindUUID, "'%s' is not a valid UUID", s)
			}
			if _, err := uuid.Parse(s); err != nil {
				return failf(KindUUID, "'%s' is not a valid UUID", s)
			}
			return nil
		}, nil
	},
}

func looksLikeUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	return s[8] == '-' && s[13] == '-' && s[18] == '-' && s[23] == '-'
}
