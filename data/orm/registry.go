package orm

import (
	"fmt"
	"reflect"
	"sync"

	"ordermgr/errors"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[reflect.Type]any)
)

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Register 注册实体 T 的模式描述，重复注册返回 SCHEMA_ERROR
func Register[T any](d *Descriptor[T]) error {
	if d == nil {
		return errors.NewError(errors.ErrCodeSchema, "nil descriptor for "+typeName[T]())
	}
	key := typeKey[T]()

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[key]; exists {
		return errors.NewError(errors.ErrCodeSchema,
			fmt.Sprintf("descriptor for %s already registered", key))
	}
	registry[key] = d
	return nil
}

// MustRegister 同 Register，失败时 panic
func MustRegister[T any](d *Descriptor[T]) {
	if err := Register(d); err != nil {
		panic(err)
	}
}

// Describe 返回实体 T 已注册的模式描述
func Describe[T any]() (*Descriptor[T], error) {
	key := typeKey[T]()

	registryMu.RLock()
	v, ok := registry[key]
	registryMu.RUnlock()

	if !ok {
		return nil, errors.NewError(errors.ErrCodeSchema,
			fmt.Sprintf("no descriptor registered for %s", key))
	}
	return v.(*Descriptor[T]), nil
}
