package bind

import (
	jserrors "github.com/robbyt/go-jscore/errors"
)

func invalid(detail string) error {
	return jserrors.InvalidInput(jserrors.PhaseBind, detail)
}

// withName adds name to the path of a classified error.
func withName(err error, name string) error {
	if e, ok := err.(*jserrors.Error); ok {
		return e.WithPath(name)
	}
	return err
}
