package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delsolprimehomes1/blog-knowledge-vault-sub000/internal/registry"
)

func TestLoadRegistryDoc_Defaults(t *testing.T) {
	registryDefaults = true
	t.Cleanup(func() { registryDefaults = false })

	doc, err := loadRegistryDoc()
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Domains)
	assert.NotEmpty(t, doc.Competitors)

	// The exported rows must survive a store round trip.
	_, err = registry.FromStored(doc.Domains, doc.Competitors)
	require.NoError(t, err)
}

func TestLoadRegistryDoc_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
domains:
  - domain: boe.es
    category: government
    trust_score: 95
competitors:
  - idealista.com
`), 0o644))

	registryFile = path
	t.Cleanup(func() { registryFile = "registry.yaml" })

	doc, err := loadRegistryDoc()
	require.NoError(t, err)
	require.Len(t, doc.Domains, 1)
	assert.Equal(t, "boe.es", doc.Domains[0].Domain)
	assert.Equal(t, []string{"idealista.com"}, doc.Competitors)
}

func TestLoadRegistryDoc_InvalidFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
domains:
  - domain: boe.es
    category: not_a_category
`), 0o644))

	registryFile = path
	t.Cleanup(func() { registryFile = "registry.yaml" })

	_, err := loadRegistryDoc()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate registry file")
}
