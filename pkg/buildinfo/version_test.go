package buildinfo

import (
	"strings"
	"testing"
)

func TestCacheScope(t *testing.T) {
	defer func(v string) { Version = v }(Version)

	Version = "v1.2.3"
	if got, want := CacheScope(), "v1.2.3+g2:"; got != want {
		t.Errorf("CacheScope() = %q, want %q", got, want)
	}

	Version = "v1.2.4"
	if CacheScope() == "v1.2.3+g2:" {
		t.Error("scope should change with the release")
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	for _, want := range []string{"{{.Name}}", Version, "generator " + Generator(), Commit, Date} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("Template() = %q, missing %q", tmpl, want)
		}
	}
}
