package k6x

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Extension is an extension module of a build, with its minimum version.
type Extension struct {
	Name    string  `json:"name"`
	Version Version `json:"version"`
}

func (e Extension) String() string {
	return e.Name + "@" + e.Version.Tag()
}

// Manifest describes a k6 build: the minimum k6 version and the extensions with their minimum versions.
// Manifests built from the same requirements are equal, whatever order the requirements were found in.
type Manifest struct {
	K6         Version
	Extensions []Extension
}

// NewManifest builds the manifest satisfying reqs.
// Unconstrained modules get version 0.0.0.
func NewManifest(reqs Requirements) *Manifest {
	manifest := new(Manifest)

	if k6, found := reqs.K6(); found {
		manifest.K6 = k6.Constraint.Min()
	}

	exts := reqs.Extensions()

	manifest.Extensions = make([]Extension, 0, len(exts))

	for _, ext := range exts {
		manifest.Extensions = append(manifest.Extensions, Extension{Name: ext.Module, Version: ext.Constraint.Min()})
	}

	return manifest
}

// String returns the canonical form of the manifest, k6 first: k6@v0.50.0,k6/x/faker@v0.3.0.
func (m *Manifest) String() string {
	parts := make([]string, 0, len(m.Extensions)+1)

	parts = append(parts, RuntimeModule+"@"+m.K6.Tag())

	for _, ext := range m.Extensions {
		parts = append(parts, ext.String())
	}

	return strings.Join(parts, ",")
}

// Key returns the cache key of the manifest.
func (m *Manifest) Key() string {
	sum := sha256.Sum256([]byte(m.String()))

	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// Path returns the build service path of the versioned build for a platform.
func (m *Manifest) Path(platform Platform) string {
	return "/" + platform.OS + "/" + platform.Arch + "/" + m.String()
}

// QueryPath returns the build service query path for a platform.
// The query names the extensions only.
func (m *Manifest) QueryPath(platform Platform) string {
	names := make([]string, 0, len(m.Extensions))

	for _, ext := range m.Extensions {
		names = append(names, ext.Name)
	}

	return "/" + platform.OS + "/" + platform.Arch + "/" + strings.Join(names, ",")
}

// Equal reports whether m and o describe the same build.
func (m *Manifest) Equal(o *Manifest) bool {
	return m.String() == o.String()
}

func (m *Manifest) MarshalJSON() ([]byte, error) {
	exts := m.Extensions
	if exts == nil {
		exts = []Extension{}
	}

	var buff bytes.Buffer

	encoder := json.NewEncoder(&buff)

	encoder.SetEscapeHTML(false)

	err := encoder.Encode(struct {
		K6         Version     `json:"k6"`
		Extensions []Extension `json:"extensions"`
	}{K6: m.K6, Extensions: exts})
	if err != nil {
		return nil, err
	}

	return bytes.TrimRight(buff.Bytes(), "\n"), nil
}
