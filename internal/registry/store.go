// Package registry keeps the durable reconciliation bookkeeping: observed
// series runtimes and placeholder stub files pending an upgrade. Both stores
// are flat text files, one pipe-delimited row per entry, rewritten in full on
// every mutation.
package registry

import (
	"fmt"
	"os"
	"strings"
)

const fieldSep = "|"

const storePerms = 0644

// readRows loads all rows of a store. A missing file yields no rows, rows
// with an unexpected field count are skipped.
func readRows(path string, fields int) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read store failed: %w", err)
	}

	var rows [][]string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		row := strings.Split(line, fieldSep)
		if len(row) != fields {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func writeRows(path string, rows [][]string) error {
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(strings.Join(row, fieldSep))
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), storePerms); err != nil {
		return fmt.Errorf("write store failed: %w", err)
	}
	return nil
}
