package dataset

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/leadsegment/internal/models"
)

const sample = "\ufeffRecord ID,Number of Sessions,Original Source,Deal close date,Extra\n" +
	"1,3,PAID_SOCIAL // PAID_SEARCH,1704844800000,x\n" +
	"2,,ORGANIC\n"

func TestReadCSV(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, []string{"Record ID", "Number of Sessions", "Original Source", "Deal close date", "Extra"}, tbl.Columns)
	assert.Equal(t, 2, tbl.Len())

	v, ok := tbl.Value(1, "Extra")
	require.True(t, ok)
	assert.Equal(t, "", v, "short row padded")

	_, ok = tbl.Value(5, "Extra")
	assert.False(t, ok)
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	tbl, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestContacts(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(sample))
	require.NoError(t, err)
	contacts, err := Contacts(tbl, DefaultVocabulary)
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	c := contacts[0]
	assert.Equal(t, "1", c.ID)
	assert.Equal(t, 0, c.SourceRow())
	latest, ok := c.Latest(models.FieldOriginalSource)
	require.True(t, ok)
	assert.Equal(t, "PAID_SEARCH", latest)
	assert.True(t, c.Has(models.FieldCloseDate), "close date fallback column")
	assert.False(t, c.Has(models.FieldIPCountry))
	assert.False(t, c.Has("Extra"), "unmapped columns are dropped")
}

func TestContactsMissingID(t *testing.T) {
	tbl, err := NewTable([]string{"Number of Sessions"}, [][]string{{"1"}})
	require.NoError(t, err)
	_, err = Contacts(tbl, DefaultVocabulary)
	assert.ErrorIs(t, err, ErrMissingIDColumn)
}

func TestResolve(t *testing.T) {
	tbl, err := NewTable([]string{"record id", "Periodo de ingreso", "PERIODO DE INGRESO", "ip_country"}, nil)
	require.NoError(t, err)
	cols := DefaultVocabulary.Resolve(tbl)
	assert.Equal(t, 0, cols[models.FieldContactID], "case-insensitive header")
	assert.Equal(t, 1, cols[models.FieldEntryPeriod], "first period header wins")
	assert.Equal(t, 3, cols[models.FieldIPCountry], "semantic name maps to itself")
	_, ok := cols[models.FieldCloseDate]
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	tbl, err := NewTable([]string{"Record ID", "Original Source", "Number of Sessions"}, nil)
	require.NoError(t, err)
	res := Validate(tbl, DefaultVocabulary)
	assert.True(t, res.Valid)
	assert.True(t, res.Ready[models.ClusterSocial])
	assert.False(t, res.Ready[models.ClusterGeo])
	assert.False(t, res.Ready[models.ClusterChannel])
	assert.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0], "IP Country")

	tbl, err = NewTable([]string{"IP Country"}, nil)
	require.NoError(t, err)
	res = Validate(tbl, DefaultVocabulary)
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"Record ID"}, res.MissingRequired)
}

func TestHash(t *testing.T) {
	a, _ := NewTable([]string{"a", "b"}, [][]string{{"1", "2"}})
	b, _ := NewTable([]string{"a", "b"}, [][]string{{"1", "2"}})
	c, _ := NewTable([]string{"a", "b"}, [][]string{{"12", ""}})
	d, _ := NewTable([]string{"a", "b"}, [][]string{{"1", "3"}})

	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash(), "cell boundaries matter")
	assert.NotEqual(t, a.Hash(), d.Hash())
	assert.Len(t, a.Hash(), 64)
}

func TestSubset(t *testing.T) {
	tbl, _ := NewTable([]string{"a"}, [][]string{{"0"}, {"1"}, {"2"}})
	sub := tbl.Subset([]int{2, 0, 9})
	assert.Equal(t, [][]string{{"2"}, {"0"}}, sub.Rows)
	assert.True(t, sub.Has("a"))
}

type exportRow struct {
	row  int
	vals []string
}

func (e exportRow) SourceRow() int   { return e.row }
func (e exportRow) Values() []string { return e.vals }

func TestWriteCSV(t *testing.T) {
	tbl, _ := NewTable([]string{"Record ID", "Name"}, [][]string{{"1", "a"}, {"2", "b"}})
	var buf bytes.Buffer
	err := WriteCSV(&buf, tbl, []string{"segment"}, []exportRow{{row: 1, vals: []string{"2A"}}})
	require.NoError(t, err)

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Record ID", "Name", "segment"}, {"2", "b", "2A"}}, recs)

	err = WriteCSV(&bytes.Buffer{}, tbl, nil, []exportRow{{row: 7}})
	assert.Error(t, err)
}
