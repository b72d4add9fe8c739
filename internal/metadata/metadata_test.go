package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotMetadata = `<metadata>
  <versioning>
    <snapshotVersions>
      <snapshotVersion>
        <extension>pom</extension>
        <value>1.2-20240101.110000-2</value>
      </snapshotVersion>
      <snapshotVersion>
        <extension>jar</extension>
        <value>1.2-20240101.120000-3</value>
      </snapshotVersion>
    </snapshotVersions>
  </versioning>
</metadata>`

func TestResolveSnapshot(t *testing.T) {
	v, err := ResolveSnapshot([]byte(snapshotMetadata), "jar")
	require.NoError(t, err)
	assert.Equal(t, "1.2-20240101.120000-3", v)
}

func TestResolveSnapshot_NoMatch(t *testing.T) {
	_, err := ResolveSnapshot([]byte(snapshotMetadata), "aar")
	assert.Error(t, err)
}

const gaMetadata = `<metadata>
  <versioning>
    <latest>1.3.0</latest>
    <release>1.2.0</release>
    <versions>
      <version>1.0.0</version>
      <version>1.1.0</version>
      <version>1.2.0</version>
      <version>1.3.0</version>
    </versions>
  </versioning>
</metadata>`

func TestResolveDynamic_LatestAndRelease(t *testing.T) {
	v, err := ResolveDynamic([]byte(gaMetadata), "LATEST")
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", v)

	v, err = ResolveDynamic([]byte(gaMetadata), "RELEASE")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", v)
}

func TestResolveDynamic_Range(t *testing.T) {
	v, err := ResolveDynamic([]byte(gaMetadata), "[1.0,1.3)")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", v)
}

func TestResolveDynamic_NoMatchingVersion(t *testing.T) {
	_, err := ResolveDynamic([]byte(gaMetadata), "[2.0,3.0)")
	assert.Error(t, err)
}
