package models

import "errors"

var ErrNotFound = errors.New("not found")
var ErrInvalidInput = errors.New("invalid input")
var ErrUnauthorized = errors.New("unauthorized")
var ErrNotImage = errors.New("not image")
var ErrFileTooLarge = errors.New("file too large")
var ErrUnsupportedFormat = errors.New("unsupported format")
var ErrBlockedAddress = errors.New("address not allowed")
