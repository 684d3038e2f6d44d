package model

import "errors"

var ErrNoRecord = errors.New("no record")
var ErrInvalidDraft = errors.New("invalid event draft")
