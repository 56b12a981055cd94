package priorsender

import "errors"

var errEmptyRecord = errors.New("priorsender: record must be non-empty")
