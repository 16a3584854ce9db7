package cmd

import "os"

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// DefaultOutput is the output writer commands use in production
var DefaultOutput OutputWriter = os.Stdout
