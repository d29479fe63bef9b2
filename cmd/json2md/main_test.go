package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidemd/internal/jsonmd"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestJSON2MDWritesMarkdown(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "videos.json")
	out := filepath.Join(dir, "nested", "videos.md")
	require.NoError(t, os.WriteFile(in, []byte(`{"data": [{"Môn học": "Toán", "Tiêu đề": "Phân số"}]}`), 0o644))

	stdout, err := execute(t, "-i", in, "-o", out)
	require.NoError(t, err)

	assert.Equal(t, "Wrote: "+out+"\n", stdout)
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "# Danh sách Video\n\n## Môn học: Toán\n\n- Phân số\n", string(got))
}

func TestJSON2MDWritesHTMLPreview(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "videos.json")
	out := filepath.Join(dir, "videos.md")
	page := filepath.Join(dir, "videos.html")
	require.NoError(t, os.WriteFile(in, []byte(`{"message": "Kho", "data": []}`), 0o644))

	stdout, err := execute(t, "--input", in, "--output", out, "--html", page)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Wrote: "+page)
	html, err := os.ReadFile(page)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1>Kho</h1>")
}

func TestJSON2MDMissingInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "absent.json")
	out := filepath.Join(dir, "out.md")

	_, err := execute(t, "-i", in, "-o", out)
	require.Error(t, err)
	assert.Equal(t, "Input file not found: "+in, err.Error())
	assert.NoFileExists(t, out)
}

func TestJSON2MDRejectsNonObject(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "list.json")
	require.NoError(t, os.WriteFile(in, []byte(`[1, 2]`), 0o644))

	_, err := execute(t, "-i", in, "-o", filepath.Join(dir, "out.md"))
	require.ErrorIs(t, err, jsonmd.ErrNotObject)
	assert.Equal(t, "Top-level JSON must be an object", err.Error())
}

func TestJSON2MDMissingData(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "nodata.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"message": "x"}`), 0o644))

	_, err := execute(t, "-i", in, "-o", filepath.Join(dir, "out.md"))
	assert.ErrorIs(t, err, jsonmd.ErrMissingData)
}

func TestJSON2MDRequiresFlags(t *testing.T) {
	_, err := execute(t, "-i", "in.json")
	assert.Error(t, err)
}
