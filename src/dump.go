package cccrack

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// Expand strftime-style conversions in a dump path, so repeated runs
// can write timestamped files ("bits-%Y%m%d-%H%M%S.log").  A path with
// no '%' passes through untouched.
func dump_path(path string) string {
	if !strings.ContainsRune(path, '%') {
		return path
	}

	var expanded, err = strftime.Format(path, time.Now())
	if err != nil {
		return path
	}

	return expanded
}

// Write the demodulated bit stream as ASCII '0'/'1', one byte per bit,
// the same shape a 1-bps capture file would have.
func save_tagging(path string, bits []byte) error {
	var buf = make([]byte, len(bits))

	for i, b := range bits {
		buf[i] = '0' + b
	}

	if err := os.WriteFile(dump_path(path), buf, 0644); err != nil {
		return fmt.Errorf("cannot dump tagging: %w", err)
	}

	return nil
}
