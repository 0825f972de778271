package smbios

import "github.com/rs/zerolog"

var logger = zerolog.Nop()

// SetLogger sets the logger used for debug output of the package.
// Nothing is logged by default. It is not safe to call SetLogger while the
// package is in use.
func SetLogger(l zerolog.Logger) {
	logger = l
}
