// Package corpus reads the flat fact file.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLine bounds a single fact; bufio's 64KiB default is too small for
// pasted paragraphs.
const maxLine = 1 << 20

// Load reads path and returns its facts.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	facts, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return facts, nil
}

// Read returns one fact per line, trimmed, skipping blank lines, in file order.
func Read(r io.Reader) ([]string, error) {
	var facts []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			facts = append(facts, line)
		}
	}
	return facts, sc.Err()
}
