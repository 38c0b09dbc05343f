package roster_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/BrandonDHaskell/gymgate/internal/gym/roster"
)

func newDirectory(t *testing.T, opts ...roster.DirectoryOption) *roster.Directory {
	t.Helper()
	d, err := roster.NewDirectory([]roster.Member{
		{Key: "AL007", Name: "Ana Lopez", Category: roster.CategoryUniversity},
		{Key: "PR120", Name: "Pablo Ruiz", Category: roster.CategoryHighSchool},
		{Key: "TO002", Name: "Teresa Ortiz", Category: roster.CategoryStaff},
	}, opts...)
	require.NoError(t, err)
	return d
}

// ── Resolve ──────────────────────────────────────────────────────────────────

func TestResolve_ExactKey(t *testing.T) {
	d := newDirectory(t)

	key, m, err := d.Resolve("AL007")
	require.NoError(t, err)
	assert.Equal(t, "AL007", key)
	assert.Equal(t, "Ana Lopez", m.Name)
}

func TestResolve_TrimsInput(t *testing.T) {
	d := newDirectory(t)

	key, _, err := d.Resolve("  TO002\t")
	require.NoError(t, err)
	assert.Equal(t, "TO002", key)
}

func TestResolve_DigitsOnly(t *testing.T) {
	d := newDirectory(t)

	for _, in := range []string{"007", "7", "0007"} {
		key, m, err := d.Resolve(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, "AL007", key, "input %q", in)
		assert.Equal(t, roster.CategoryUniversity, m.Category)
	}
}

func TestResolve_MixedInputUsesDigits(t *testing.T) {
	d := newDirectory(t)

	key, _, err := d.Resolve("pr-120")
	require.NoError(t, err)
	assert.Equal(t, "PR120", key)
}

func TestResolve_NotFound(t *testing.T) {
	d := newDirectory(t)

	for _, in := range []string{"999", "", "   ", "XYZ", "AL-0"} {
		_, _, err := d.Resolve(in)
		assert.ErrorIs(t, err, roster.ErrNotFound, "input %q", in)
	}
}

func TestResolve_ExactDigitsPreferredOverZeroTrimmed(t *testing.T) {
	d, err := roster.NewDirectory([]roster.Member{
		{Key: "AL7", Name: "Seven", Category: roster.CategoryUniversity},
		{Key: "TO007", Name: "Double-O", Category: roster.CategoryStaff},
	})
	require.NoError(t, err)

	key, _, err := d.Resolve("007")
	require.NoError(t, err)
	assert.Equal(t, "TO007", key)

	key, _, err = d.Resolve("7")
	require.NoError(t, err)
	assert.Equal(t, "AL7", key)
}

func TestResolve_CollisionFirstInSourceOrderWins(t *testing.T) {
	d, err := roster.NewDirectory([]roster.Member{
		{Key: "TO001", Name: "Staff One", Category: roster.CategoryStaff},
		{Key: "AL001", Name: "Student One", Category: roster.CategoryUniversity},
	})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		key, _, err := d.Resolve("001")
		require.NoError(t, err)
		require.Equal(t, "TO001", key)
	}
}

func TestResolve_CollisionRejectedWhenConfigured(t *testing.T) {
	d, err := roster.NewDirectory([]roster.Member{
		{Key: "TO001", Name: "Staff One", Category: roster.CategoryStaff},
		{Key: "AL001", Name: "Student One", Category: roster.CategoryUniversity},
	}, roster.RejectAmbiguous(true))
	require.NoError(t, err)

	_, _, err = d.Resolve("1")
	require.ErrorIs(t, err, roster.ErrAmbiguous)

	key, _, err := d.Resolve("AL001")
	require.NoError(t, err, "exact keys are never ambiguous")
	assert.Equal(t, "AL001", key)
}

// ── NewDirectory ─────────────────────────────────────────────────────────────

func TestNewDirectory_RejectsDuplicates(t *testing.T) {
	_, err := roster.NewDirectory([]roster.Member{
		{Key: "AL001", Category: roster.CategoryUniversity},
		{Key: " AL001 ", Category: roster.CategoryUniversity},
	})
	require.ErrorIs(t, err, roster.ErrDirectoryLoad)
}

func TestDirectory_MembersKeepSourceOrder(t *testing.T) {
	d := newDirectory(t)

	var keys []string
	for _, m := range d.Members() {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"AL007", "PR120", "TO002"}, keys)
	assert.Equal(t, 3, d.Len())
}

// ── Loaders ──────────────────────────────────────────────────────────────────

func TestLoadCSV_TrimsHeadersAndCells(t *testing.T) {
	src := " matricula , nombre ,categoria \n" +
		"AL001, Ana ,universidad\n" +
		"PR002,Pablo,preparatoria\n" +
		",ignored,universidad\n" +
		"TO003,Teresa,colaborador\n"

	d, err := roster.LoadCSV(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 3, d.Len())

	m, ok := d.Get("AL001")
	require.True(t, ok)
	assert.Equal(t, "Ana", m.Name)
	assert.Equal(t, roster.CategoryUniversity, m.Category)

	m, _ = d.Get("TO003")
	assert.Equal(t, roster.CategoryStaff, m.Category)
}

func TestLoadCSV_BOMHeader(t *testing.T) {
	src := "\ufeffmatricula,nombre,categoria\nAL007,Ana,universidad\n"

	d, err := roster.LoadCSV(strings.NewReader(src))
	require.NoError(t, err)

	key, m, err := d.Resolve("7")
	require.NoError(t, err)
	assert.Equal(t, "AL007", key)
	assert.Equal(t, "Ana", m.Name)
}

func TestLoadCSV_EnglishHeaders(t *testing.T) {
	src := "Identifier,Name,Category\nAL001,Ana,high_school\n"

	d, err := roster.LoadCSV(strings.NewReader(src))
	require.NoError(t, err)
	m, ok := d.Get("AL001")
	require.True(t, ok)
	assert.Equal(t, roster.CategoryHighSchool, m.Category)
}

func TestLoadCSV_Failures(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"missing column":   "matricula,nombre\nAL001,Ana\n",
		"unknown category": "matricula,nombre,categoria\nAL001,Ana,alumni\n",
		"no members":       "matricula,nombre,categoria\n",
		"duplicate":        "matricula,nombre,categoria\nAL001,Ana,staff\nAL001,Ann,staff\n",
		"malformed":        "matricula,nombre,categoria\n\"AL001,Ana,staff\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := roster.LoadCSV(strings.NewReader(src))
			require.Error(t, err)
			assert.True(t, roster.IsLoadError(err), "got %v", err)
		})
	}
}

func TestLoadXLSX_FirstSheet(t *testing.T) {
	wb := excelize.NewFile()
	defer wb.Close()
	sheet := wb.GetSheetName(0)
	rows := [][]any{
		{"matricula ", "nombre", " categoria"},
		{"AL007", "Ana Lopez", "universidad"},
		{"TO002", "Teresa Ortiz", "colaborador"},
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, cellRef, &row))
	}
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)

	d, err := roster.LoadXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())

	key, m, err := d.Resolve("7")
	require.NoError(t, err)
	assert.Equal(t, "AL007", key)
	assert.Equal(t, "Ana Lopez", m.Name)
}

func TestLoadXLSX_NotAWorkbook(t *testing.T) {
	_, err := roster.LoadXLSX(strings.NewReader("definitely not a zip"))
	require.ErrorIs(t, err, roster.ErrDirectoryLoad)
}

func TestLoadFile_ByExtension(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "roster.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("matricula,nombre,categoria\nAL001,Ana,staff\n"), 0o644))
	d, err := roster.LoadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())

	txtPath := filepath.Join(dir, "roster.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("x"), 0o644))
	_, err = roster.LoadFile(txtPath)
	require.ErrorIs(t, err, roster.ErrDirectoryLoad)

	_, err = roster.LoadFile(filepath.Join(dir, "missing.csv"))
	require.ErrorIs(t, err, roster.ErrDirectoryLoad)
	require.False(t, errors.Is(err, roster.ErrNotFound))
}

func TestParseCategory(t *testing.T) {
	c, err := roster.ParseCategory(" Universidad ")
	require.NoError(t, err)
	assert.Equal(t, roster.CategoryUniversity, c)

	_, err = roster.ParseCategory("")
	assert.Error(t, err)
}
