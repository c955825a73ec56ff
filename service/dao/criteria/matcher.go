package criteria

import (
	"github.com/viant/ossim/service/dao"
)

// Filter decides whether an entity passes the List parameters.
type Filter[T any] func(t *T, parameters []*dao.Parameter) bool

// MatchField reports whether actual satisfies every parameter named name.
// A parameter value may be a single string or a list of accepted strings;
// parameters with other names are ignored.
func MatchField(name, actual string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != name {
			continue
		}
		switch expected := parameter.Value.(type) {
		case string:
			if actual != expected {
				return false
			}
		case []string:
			matched := false
			for _, candidate := range expected {
				if actual == candidate {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
	}
	return true
}
