package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemperatureReadsMilliCelsius(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "temp1_input")
	if err := os.WriteFile(path, []byte("45000"), 0o600); err != nil {
		t.Fatal(err)
	}

	src := NewTemperature(path)
	assert.NoError(t, src.Update())
	assert.Equal(t, 45.0, src.Get().Scaled())
	assert.NoError(t, src.Err())
}

func TestTemperatureKeepsLastValueOnReadError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "temp1_input")
	if err := os.WriteFile(path, []byte("20000"), 0o600); err != nil {
		t.Fatal(err)
	}

	src := NewTemperature(path)
	assert.NoError(t, src.Update())
	assert.Equal(t, 20.0, src.Get().Scaled())

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	assert.Error(t, src.Update())
	assert.Error(t, src.Err())
	assert.Equal(t, 20.0, src.Get().Scaled())
}
