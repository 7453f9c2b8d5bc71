package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/stereo/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvComponentScan, "")
	t.Setenv(config.EnvStrict, "")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_XML(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "applicationContext.xml", `<?xml version="1.0" encoding="UTF-8"?>
<beans>
    <package-scan component-scan="example.com/app"/>
</beans>`)

	desc, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "example.com/app", desc.ComponentScan)
	assert.False(t, desc.Strict)
	assert.Equal(t, path, desc.Source)
}

func TestLoad_XMLStrict(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "ctx.xml", `<context strict="true"><package-scan component-scan=" example.com/app "/></context>`)

	desc, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "example.com/app", desc.ComponentScan)
	assert.True(t, desc.Strict)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)

	for _, ext := range []string{".yaml", ".yml"} {
		t.Run(ext, func(t *testing.T) {
			path := writeFile(t, "stereo"+ext, "component-scan: example.com/app/service\nstrict: true\n")

			desc, err := config.Load(path)
			require.NoError(t, err)
			assert.Equal(t, "example.com/app/service", desc.ComponentScan)
			assert.True(t, desc.Strict)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.xml"))
		assert.ErrorIs(t, err, config.ErrDescriptorNotFound)
	})

	t.Run("no package-scan", func(t *testing.T) {
		_, err := config.Load(writeFile(t, "ctx.xml", `<beans/>`))
		assert.ErrorIs(t, err, config.ErrNoComponentScan)
	})

	t.Run("empty component-scan", func(t *testing.T) {
		_, err := config.Load(writeFile(t, "ctx.yaml", "component-scan: \"\"\n"))
		assert.ErrorIs(t, err, config.ErrNoComponentScan)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := config.Load(writeFile(t, "ctx.json", `{}`))
		assert.ErrorIs(t, err, config.ErrUnsupportedLocator)
	})

	t.Run("malformed xml", func(t *testing.T) {
		_, err := config.Load(writeFile(t, "ctx.xml", `<beans><package-scan`))
		assert.Error(t, err)
	})
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv(config.EnvComponentScan, "example.com/override")
	t.Setenv(config.EnvStrict, "true")

	desc, err := config.Parse(".xml", []byte(`<beans><package-scan component-scan="example.com/app"/></beans>`))
	require.NoError(t, err)
	assert.Equal(t, "example.com/override", desc.ComponentScan)
	assert.True(t, desc.Strict)
}

func TestParse_EnvSuppliesMissingRoot(t *testing.T) {
	t.Setenv(config.EnvComponentScan, "example.com/app")
	t.Setenv(config.EnvStrict, "")

	desc, err := config.Parse(".yml", []byte("strict: false\n"))
	require.NoError(t, err)
	assert.Equal(t, "example.com/app", desc.ComponentScan)
}

func TestParse_InvalidStrictEnv(t *testing.T) {
	t.Setenv(config.EnvComponentScan, "")
	t.Setenv(config.EnvStrict, "sometimes")

	_, err := config.Parse(".yml", []byte("component-scan: example.com/app\n"))
	assert.Error(t, err)
}
