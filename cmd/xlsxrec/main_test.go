package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

const employeesYAML = `
Employees:
  - {Name: Alice, Age: 30, Active: true}
  - {Name: Bob, Age: 41, Active: false}
Teams:
  - {Team: Core}
`

func writeWorkbook(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "in.yaml")
	require.NoError(t, os.WriteFile(in, []byte(employeesYAML), 0o644))
	xlsx := filepath.Join(dir, "out.xlsx")
	_, err := execute(t, "", "write", in, "-o", xlsx)
	require.NoError(t, err)
	return xlsx
}

func TestWriteThenReadSheet(t *testing.T) {
	xlsx := writeWorkbook(t)

	out, err := execute(t, "", "read", xlsx, "--sheet", "employees")
	require.NoError(t, err)
	assert.Equal(t,
		`[{"Name":"Alice","Age":"30","Active":true},{"Name":"Bob","Age":"41","Active":false}]`+"\n",
		out)
}

func TestWriteFromStdin(t *testing.T) {
	xlsx := filepath.Join(t.TempDir(), "stdin.xlsx")
	_, err := execute(t, `[{"a": "x"}]`, "write", "-", "-o", xlsx, "--sheet", "Data")
	require.NoError(t, err)

	out, err := execute(t, "", "read", xlsx)
	require.NoError(t, err)
	assert.Equal(t,
		`{"sheets":[{"name":"Data","header":["a"],"records":[{"a":"x"}]}]}`+"\n",
		out)
}

func TestWriteNoHeaders(t *testing.T) {
	xlsx := filepath.Join(t.TempDir(), "raw.xlsx")
	_, err := execute(t, `[{"a": "x", "b": "y"}]`, "write", "-", "-o", xlsx, "--no-headers")
	require.NoError(t, err)

	out, err := execute(t, "", "read", xlsx, "--sheet", "Sheet1", "--no-headers")
	require.NoError(t, err)
	assert.Equal(t, `[{"column_0":"x","column_1":"y"}]`+"\n", out)
}

func TestReadToFiles(t *testing.T) {
	xlsx := writeWorkbook(t)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "all.json")
	sheetsDir := filepath.Join(dir, "sheets")

	stdout, err := execute(t, "", "read", xlsx, "-o", outPath, "--sheets-dir", sheetsDir, "--pretty")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "Employees"`)

	for _, name := range []string{"Employees.json", "Teams.json"} {
		_, err := os.Stat(filepath.Join(sheetsDir, name))
		assert.NoError(t, err, name)
	}
}

func TestInspect(t *testing.T) {
	xlsx := writeWorkbook(t)

	out, err := execute(t, "", "inspect", xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, `"book_name":"out.xlsx"`)
	assert.Contains(t, out, `"name":"Employees"`)
	assert.Contains(t, out, `"name":"Teams"`)
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("S: 3\n"), 0o644))

	tests := []struct {
		name string
		args []string
	}{
		{"write without output", []string{"write", bad}},
		{"write invalid input", []string{"write", bad, "-o", filepath.Join(dir, "x.xlsx")}},
		{"write missing input", []string{"write", filepath.Join(dir, "none.yaml"), "-o", filepath.Join(dir, "x.xlsx")}},
		{"read missing file", []string{"read", filepath.Join(dir, "none.xlsx")}},
		{"read missing file by sheet", []string{"read", filepath.Join(dir, "none.xlsx"), "--sheet", "S"}},
		{"read not a workbook", []string{"read", bad}},
		{"inspect missing file", []string{"inspect", filepath.Join(dir, "none.xlsx")}},
		{"no arguments", []string{"read"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			assert.Error(t, err)
		})
	}
	_, err := os.Stat(filepath.Join(dir, "x.xlsx"))
	assert.True(t, os.IsNotExist(err))
}
