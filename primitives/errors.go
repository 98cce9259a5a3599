package primitives

import "errors"

// ErrDatalakeMalformed covers the degenerate-range edge cases named in
// spec §4.5: start > end, increment = 0, or an empty included-types mask.
var ErrDatalakeMalformed = errors.New("primitives: datalake malformed")
