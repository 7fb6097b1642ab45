package invoice

import "errors"

var ErrItemIndex = errors.New("invoice item index out of range")
