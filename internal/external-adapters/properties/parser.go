// Package properties reads signing credentials from Java .properties files.
package properties

import (
	"fmt"

	"github.com/magiconair/properties"
)

// Parse decodes .properties content the way java.util.Properties.load does
// for an InputStream: ISO-8859-1 bytes, no ${} expansion.
func Parse(data []byte) (map[string]string, error) {
	loader := &properties.Loader{
		Encoding:         properties.ISO_8859_1,
		DisableExpansion: true,
	}

	p, err := loader.LoadBytes(trimDanglingContinuation(data))
	if err != nil {
		return nil, fmt.Errorf("invalid properties syntax: %w", err)
	}

	return p.Map(), nil
}

// trimDanglingContinuation drops a line continuation that has no next line.
// java.util.Properties keeps such a line and ignores the backslash.
func trimDanglingContinuation(data []byte) []byte {
	n := 0
	for i := len(data) - 1; i >= 0 && data[i] == '\\'; i-- {
		n++
	}
	if n%2 == 1 {
		return data[:len(data)-1]
	}
	return data
}
