package io

import (
	"bufio"
	"io"
	"strings"
)

// Unmarshal reads an image, one word per line. Carriage returns before the
// newline are dropped; no other validation is done.
func Unmarshal(input io.Reader) (lines []string, err error) {
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}

	err = scanner.Err()

	return
}

// Marshal writes an image, one word per line.
func Marshal(output io.Writer, lines []string) (err error) {
	w := bufio.NewWriter(output)
	for _, line := range lines {
		_, err = w.WriteString(line + "\n")
		if err != nil {
			return
		}
	}

	err = w.Flush()

	return
}
