// Package buildinfo describes the labyrinth binary: its release, the commit
// it was built from, and the revision of the maze generator it carries.
//
// Release fields are stamped with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/labyrinth/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/labyrinth/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/labyrinth/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

// GeneratorRevision identifies the carving algorithm. Bump it whenever the
// same seed and dimensions would carve a different maze, so caches and
// history entries from older binaries are not mistaken for current output.
const GeneratorRevision = 2

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Generator names the generator revision, e.g. "g2".
func Generator() string {
	return fmt.Sprintf("g%d", GeneratorRevision)
}

// CacheScope prefixes cache keys so that entries never cross releases or
// generator revisions.
func CacheScope() string {
	return Version + "+" + Generator() + ":"
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (generator %s)\ncommit: %s\nbuilt: %s\n", Version, Generator(), Commit, Date)
}
