package config

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed sample-niksi.json
var sample []byte

// Sample returns the bundled sample configuration.
func Sample() []byte {
	out := make([]byte, len(sample))
	copy(out, sample)
	return out
}

// WriteSample writes the sample configuration to path. An existing file is
// never overwritten.
func WriteSample(path string) error {
	if path == "" {
		path = DefaultFile
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating sample config: %w", err)
	}
	if _, err := f.Write(sample); err != nil {
		f.Close()
		return fmt.Errorf("writing sample config %s: %w", path, err)
	}
	return f.Close()
}
