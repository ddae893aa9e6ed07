package cache

import (
	"errors"
	"fmt"

	"github.com/Adyime/DadapperDaze-sub001/internal/cacheinfra"
)

var (
	// ErrNotFound is reported by stores on a miss or an expired entry.
	ErrNotFound = cacheinfra.ErrNotFound

	// ErrInvalidRequest is the parent of every synchronous argument error.
	ErrInvalidRequest = errors.New("cache: invalid request")

	ErrInvalidKey = fmt.Errorf("%w: key must not be empty", ErrInvalidRequest)
	ErrInvalidTTL = fmt.Errorf("%w: ttl must be positive", ErrInvalidRequest)
	ErrNilFetch   = fmt.Errorf("%w: fetch function is nil", ErrInvalidRequest)
	ErrNilDecode  = fmt.Errorf("%w: decode function is nil", ErrInvalidRequest)

	// ErrInvalidResultType is returned when a service hands back a value
	// that does not match the requested type.
	ErrInvalidResultType = errors.New("cache: result has unexpected type")
)
