// Package assets embeds the SQL migrations applied at startup.
package assets

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed sql/*.sql
var FS embed.FS

// Migrations returns the embedded migration paths in lexical order.
func Migrations() ([]string, error) {
	var out []string
	err := fs.WalkDir(FS, "sql", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			out = append(out, path)
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

// Read returns the contents of one migration.
func Read(path string) (string, error) {
	b, err := FS.ReadFile(path)
	return string(b), err
}
