package client_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/ikauth/client"
)

func sampleConfigFile() *client.ConfigFile {
	return &client.ConfigFile{
		Profiles: []client.Profile{
			{Name: "local", URLEndpoint: testEndpoint, PublicKey: testPublicKey, AuthEndpoint: "http://localhost:3001/auth"},
			{Name: "production", URLEndpoint: "https://ik.imagekit.io/acme", PublicKey: "public_prod", AuthEndpoint: "https://api.example.com/auth", Default: true},
		},
	}
}

func TestConfigFile_GetProfile(t *testing.T) {
	cfg := sampleConfigFile()

	p, err := cfg.GetProfile("local")
	require.NoError(t, err)
	assert.Equal(t, testEndpoint, p.URLEndpoint)

	p, err = cfg.GetProfile("")
	require.NoError(t, err)
	assert.Equal(t, "production", p.Name)

	_, err = cfg.GetProfile("missing")
	assert.ErrorIs(t, err, client.ErrProfileNotFound)

	_, err = (&client.ConfigFile{}).GetProfile("")
	assert.ErrorIs(t, err, client.ErrNoProfiles)
}

func TestConfigFile_DefaultFallsBackToFirst(t *testing.T) {
	cfg := &client.ConfigFile{Profiles: []client.Profile{{Name: "a"}, {Name: "b"}}}

	p, err := cfg.GetDefaultProfile()
	require.NoError(t, err)
	assert.Equal(t, "a", p.Name)
}

func TestConfigFile_AddUpdateRemove(t *testing.T) {
	cfg := sampleConfigFile()

	err := cfg.AddProfile(client.Profile{Name: "local"})
	assert.ErrorIs(t, err, client.ErrProfileExists)

	require.NoError(t, cfg.AddProfile(client.Profile{Name: "staging", URLEndpoint: "https://ik.imagekit.io/staging"}))
	assert.Equal(t, []string{"local", "production", "staging"}, cfg.ProfileNames())

	require.NoError(t, cfg.UpdateProfile(client.Profile{Name: "staging", URLEndpoint: "https://ik.imagekit.io/stage2"}))
	p, err := cfg.GetProfile("staging")
	require.NoError(t, err)
	assert.Equal(t, "https://ik.imagekit.io/stage2", p.URLEndpoint)

	assert.ErrorIs(t, cfg.UpdateProfile(client.Profile{Name: "nope"}), client.ErrProfileNotFound)

	require.NoError(t, cfg.RemoveProfile("staging"))
	assert.ErrorIs(t, cfg.RemoveProfile("staging"), client.ErrProfileNotFound)
	assert.Equal(t, []string{"local", "production"}, cfg.ProfileNames())
}

func TestConfigFile_SetDefault(t *testing.T) {
	cfg := sampleConfigFile()

	require.NoError(t, cfg.SetDefault("local"))
	p, err := cfg.GetDefaultProfile()
	require.NoError(t, err)
	assert.Equal(t, "local", p.Name)
	assert.False(t, cfg.Profiles[1].Default)

	assert.ErrorIs(t, cfg.SetDefault("missing"), client.ErrProfileNotFound)
}

func TestConfigFile_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := sampleConfigFile()

	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := client.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigFile_RejectsPrivateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
profiles:
  - name: local
    url_endpoint: https://ik.imagekit.io/demo
    public_key: public_abc
    private_key: private_abc
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := client.LoadConfigFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoadConfigFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	cfg, err := client.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Profiles)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := client.LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("IKAUTH_URL_ENDPOINT", testEndpoint)
	t.Setenv("IKAUTH_PUBLIC_KEY", testPublicKey)
	t.Setenv("IKAUTH_AUTH_ENDPOINT", "http://localhost:4000/auth")
	t.Setenv("IKAUTH_PROFILE", "local")
	t.Setenv("IKAUTH_CONFIG", "/tmp/ikauth.yaml")

	cfg := client.ConfigFromEnv()
	assert.Equal(t, testEndpoint, cfg.URLEndpoint)
	assert.Equal(t, testPublicKey, cfg.PublicKey)
	assert.Equal(t, "http://localhost:4000/auth", cfg.AuthEndpoint)
	assert.Equal(t, "local", client.ProfileFromEnv())
	assert.Equal(t, "/tmp/ikauth.yaml", client.ConfigPathFromEnv())
}

func TestMergeConfig(t *testing.T) {
	file := &client.Config{URLEndpoint: testEndpoint, PublicKey: "public_file", AuthEndpoint: "http://file/auth"}
	env := &client.Config{PublicKey: "public_env"}
	flags := &client.Config{AuthEndpoint: "http://flag/auth"}

	got := client.MergeConfig(file, nil, env, flags)
	assert.Equal(t, &client.Config{
		URLEndpoint:  testEndpoint,
		PublicKey:    "public_env",
		AuthEndpoint: "http://flag/auth",
	}, got)
}

func TestConfigFromProfile(t *testing.T) {
	assert.Equal(t, &client.Config{}, client.ConfigFromProfile(nil))

	cfg := client.ConfigFromProfile(&client.Profile{Name: "x", URLEndpoint: testEndpoint, PublicKey: testPublicKey})
	assert.Equal(t, testEndpoint, cfg.URLEndpoint)
	assert.Equal(t, testPublicKey, cfg.Public().PublicKey)
}
