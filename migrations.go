package portfolio

import (
	"embed"

	"github.com/goliatone/go-portfolio/internal/storage"
)

// GetMigrationsFS returns the embedded SQL migrations, one directory per dialect.
func GetMigrationsFS() embed.FS {
	return storage.MigrationsFS()
}
