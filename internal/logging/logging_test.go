package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReporter_TaskWritesToOutWithPrefix(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewWithWriters(&out, &errOut)

	r.Task("resolving %d dependencies", 3)

	assert.Contains(t, out.String(), "TASK: resolving 3 dependencies")
	assert.Empty(t, errOut.String())
}

func TestReporter_NoteWritesToOut(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewWithWriters(&out, &errOut)

	r.Note("dependencies unchanged, skipping resolution")

	assert.Contains(t, out.String(), "NOTE: dependencies unchanged, skipping resolution")
	assert.Empty(t, errOut.String())
}

func TestReporter_WarnWritesToErrOut(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewWithWriters(&out, &errOut)

	r.Warn("failed to fetch %s", "com.example:lib:1.0")

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "WARN: failed to fetch com.example:lib:1.0")
}

func TestReporter_ErrorWritesToErrOut(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewWithWriters(&out, &errOut)

	r.Error("unpacking %s: boom", "lib.aar")

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "ERROR: unpacking lib.aar: boom")
}

func TestReporter_NonTTYWriterIsUncolored(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewWithWriters(&out, &errOut)

	assert.False(t, r.color)

	r.Hook("module layout changed")
	assert.Equal(t, "HOOK: module layout changed\n", out.String())
}
