package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCoords(t *testing.T) {
	a, err := FromCoords("androidx.core:core-ktx:1.12.0")
	require.NoError(t, err)
	assert.Equal(t, "androidx.core", a.Group)
	assert.Equal(t, "core-ktx", a.Name)
	assert.Equal(t, "1.12.0", a.Version)
	assert.Equal(t, "androidx.core:core-ktx:1.12.0", a.Coords())
}

func TestFromCoords_ExtraPartsIgnored(t *testing.T) {
	a, err := FromCoords("com.example:lib:1.0:jar:sources")
	require.NoError(t, err)
	assert.Equal(t, "com.example:lib:1.0", a.Coords())
}

func TestFromCoords_TooFewParts(t *testing.T) {
	_, err := FromCoords("com.example:lib")
	assert.Error(t, err)
}

func TestNew_NormalizesBracketVersion(t *testing.T) {
	a, err := New("com.example", "lib", "[1.6.1]")
	require.NoError(t, err)
	assert.Equal(t, "1.6.1", a.Version)
}

func TestNew_RejectsWildcardName(t *testing.T) {
	_, err := New("com.example", "*", "1.0")
	assert.Error(t, err)
}

func TestArtifact_IsSnapshot(t *testing.T) {
	a, err := New("com.example", "lib", "1.2-SNAPSHOT")
	require.NoError(t, err)
	assert.True(t, a.IsSnapshot())

	a, err = New("com.example", "lib", "1.2")
	require.NoError(t, err)
	assert.False(t, a.IsSnapshot())
}

func TestArtifact_IsDynamic(t *testing.T) {
	cases := map[string]bool{
		"LATEST":      true,
		"RELEASE":     true,
		"[1.0,2.0)":   true,
		"1.0":         false,
		"1.0-SNAPSHOT": false,
	}
	for version, want := range cases {
		a, err := New("com.example", "lib", version)
		require.NoError(t, err)
		assert.Equal(t, want, a.IsDynamic(), "version %q", version)
	}
}

func TestArtifact_RelativePath(t *testing.T) {
	a, err := New("androidx.core", "core-ktx", "1.12.0")
	require.NoError(t, err)
	assert.Equal(t, "androidx/core/core-ktx/1.12.0/core-ktx-1.12.0.aar", a.RelativePath("aar"))
	assert.Equal(t, "androidx/core/core-ktx/1.12.0/maven-metadata.xml", a.VersionMetadataPath())
	assert.Equal(t, "androidx/core/core-ktx/maven-metadata.xml", a.GAMetadataPath())
}

func TestArtifact_ID(t *testing.T) {
	a, err := New("com.example", "lib", "1.0")
	require.NoError(t, err)
	b, err := New("com.example", "lib", "2.0")
	require.NoError(t, err)
	assert.Equal(t, a.ID(), b.ID())
	assert.NotEqual(t, a.Coords(), b.Coords())
}
