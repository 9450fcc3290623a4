package neighborhood

import "errors"

var ErrNeighborhoodNotFound = errors.New("neighborhood not found")
