package staff

import "errors"

var ErrUnknownCategory = errors.New("unknown staff category")
