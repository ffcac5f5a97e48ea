package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/allisson/formseal/internal/fieldcrypt/service"
)

// RunHash prints the hex SHA-256 digest of input, or of stdin with its trailing newline
// removed when input is empty.
func RunHash(hasher service.HashService, streams IOTuple, input string) error {
	if input == "" {
		data, err := io.ReadAll(streams.Reader)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		input = strings.TrimRight(string(data), "\r\n")
	}

	_, err := fmt.Fprintln(streams.Writer, hasher.Hash(input))
	return err
}
