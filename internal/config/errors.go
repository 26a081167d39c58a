package config

import "errors"

// ErrNotInitialized is returned when the data directory does not exist.
var ErrNotInitialized = errors.New("repo-knowledge: data directory not initialized")

// ErrAlreadyInitialized is returned when init is invoked without force
// and the data directory already exists.
var ErrAlreadyInitialized = errors.New("repo-knowledge: data directory already initialized")
