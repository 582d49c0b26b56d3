package enum

import (
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/exp/slices"
)

var (
	mutex    sync.RWMutex
	registry = map[reflect.Type]map[string]any{}
)

// New registers value as a member of its type, so it can be parsed back from
// its string form with ToEnum.
func New[T ~string](value T) T {
	t := reflect.TypeOf(value)

	mutex.Lock()
	defer mutex.Unlock()

	if _, ok := registry[t]; !ok {
		registry[t] = map[string]any{}
	}

	registry[t][string(value)] = value
	return value
}

func ToEnum[T ~string](s string) (T, error) {
	var zero T

	mutex.RLock()
	defer mutex.RUnlock()

	members, ok := registry[reflect.TypeOf(zero)]
	if !ok {
		return zero, fmt.Errorf("not found enum type %T", zero)
	}

	value, ok := members[s]
	if !ok {
		return zero, fmt.Errorf("not found value %s in enum %T", s, zero)
	}

	return value.(T), nil
}

// Values returns the registered members of T in lexical order.
func Values[T ~string]() []T {
	var zero T

	mutex.RLock()
	defer mutex.RUnlock()

	result := make([]T, 0, len(registry[reflect.TypeOf(zero)]))
	for _, value := range registry[reflect.TypeOf(zero)] {
		result = append(result, value.(T))
	}

	slices.Sort(result)
	return result
}
