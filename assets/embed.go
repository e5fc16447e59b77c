package assets

import (
	"embed"
	"io/fs"
)

//go:embed heroes.json sql/*.sql
var FS embed.FS

// DefaultDataset returns the bundled hero list (JSON).
func DefaultDataset() ([]byte, error) {
	return FS.ReadFile("heroes.json")
}

// Migrations returns the SQL migrations rooted at their directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		panic(err) // embedded path is fixed at compile time
	}
	return sub
}
