package persistence

import "errors"

var errNoDialectSource = errors.New("no dialect given and no dialect source configured")
