package dataset

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/docforge/docforge/internal/codec"
	"github.com/docforge/docforge/internal/docerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "name,city,age\nAda,London,36\nGrace,Arlington,45\nLinus,Helsinki,\n"

func TestCSVRoundTrip(t *testing.T) {
	ds, err := CSVCodec{}.Decode([]byte(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "city", "age"}, ds.Columns)
	require.Len(t, ds.Rows, 3)
	assert.Equal(t, "Ada", ds.Rows[0]["name"])
	assert.Equal(t, "", ds.Rows[2]["age"])

	out, err := CSVCodec{}.Encode(ds)
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(out))
}

func TestCSVShortRowsBecomeEmptyCells(t *testing.T) {
	ds, err := CSVCodec{}.Decode([]byte("a,b,c\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, "", ds.Rows[0]["c"])
}

func TestCSVEmptyInput(t *testing.T) {
	_, err := CSVCodec{}.Decode(nil)
	assert.Error(t, err)
}

func TestJSONDecodePreservesFirstObjectKeyOrder(t *testing.T) {
	input := `[
		{"zeta": "1", "alpha": "2", "mid": "3"},
		{"alpha": "5", "extra": "ignored"}
	]`
	ds, err := JSONCodec{}.Decode([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, ds.Columns)
	assert.Equal(t, "", ds.Rows[1]["zeta"], "missing fields serialize as empty string")
	assert.Equal(t, "5", ds.Rows[1]["alpha"])
	_, hasExtra := ds.Rows[1]["extra"]
	assert.False(t, hasExtra, "fields outside the header set are dropped")
}

func TestJSONScalarStringification(t *testing.T) {
	ds, err := JSONCodec{}.Decode([]byte(`[{"n": 42, "f": 1.5, "b": true, "s": "x", "nul": null}]`))
	require.NoError(t, err)
	row := ds.Rows[0]
	assert.Equal(t, "42", row["n"])
	assert.Equal(t, "1.5", row["f"])
	assert.Equal(t, "true", row["b"])
	assert.Equal(t, "x", row["s"])
	assert.Equal(t, "", row["nul"])
}

func TestJSONEncodeKeepsColumnOrder(t *testing.T) {
	ds := New([]string{"b", "a"}, [][]string{{"1", "2"}})
	out, err := JSONCodec{}.Encode(ds)
	require.NoError(t, err)

	// Output is valid JSON and "b" precedes "a" textually.
	var parsed []map[string]string
	require.NoError(t, json.Unmarshal(out, &parsed))
	assert.Equal(t, "1", parsed[0]["b"])
	assert.Less(t, bytes.Index(out, []byte(`"b"`)), bytes.Index(out, []byte(`"a"`)))
}

func TestXMLHeaderInferenceFromFirstRecord(t *testing.T) {
	input := `<catalog>
		<book><title>Go</title><author>Pike</author></book>
		<book><author>Cox</author><isbn>123</isbn></book>
	</catalog>`
	ds, err := XMLCodec{}.Decode([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"title", "author"}, ds.Columns)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "", ds.Rows[1]["title"], "missing tags yield empty string")
	assert.Equal(t, "Cox", ds.Rows[1]["author"])
}

func TestXMLRoundTrip(t *testing.T) {
	ds := New([]string{"name", "qty"}, [][]string{{"bolt", "10"}, {"nut & washer", "3"}})
	out, err := XMLCodec{}.Encode(ds)
	require.NoError(t, err)

	back, err := XMLCodec{}.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, ds.Columns, back.Columns)
	assert.Equal(t, "nut & washer", back.Rows[1]["name"])
}

func TestXMLNoRecords(t *testing.T) {
	_, err := XMLCodec{}.Decode([]byte("<root></root>"))
	assert.Error(t, err)
}

func TestXLSXRoundTrip(t *testing.T) {
	ds := New([]string{"sku", "price"}, [][]string{{"A-1", "9.99"}, {"B-2", "15"}})
	out, err := XLSXCodec{}.Encode(ds)
	require.NoError(t, err)

	back, err := XLSXCodec{}.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, ds.Columns, back.Columns)
	require.Len(t, back.Rows, 2)
	assert.Equal(t, "A-1", back.Rows[0]["sku"])
}

func TestRegistryConvertCSVToJSONAndBack(t *testing.T) {
	reg := NewRegistry()

	jsonOut, err := reg.Convert([]byte(sampleCSV), codec.FormatCSV, codec.FormatJSON)
	require.NoError(t, err)

	csvOut, err := reg.Convert(jsonOut, codec.FormatJSON, codec.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(csvOut))
}

func TestRegistryUnknownFormat(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Get(codec.FormatPDF)
	assert.Error(t, err)
}

func TestSplitRowsChunkingCoversAllRowsExactlyOnce(t *testing.T) {
	var rows [][]string
	for i := 0; i < 7; i++ {
		rows = append(rows, []string{string(rune('a' + i)), "v"})
	}
	ds := New([]string{"id", "val"}, rows)

	archive, err := SplitRows(ds, 3, "data")
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	require.Len(t, zr.File, 3, "ceil(7/3) chunks expected")

	var collected []string
	for i, f := range zr.File {
		assert.Equal(t, "data-part-"+string(rune('1'+i))+".csv", f.Name)
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		lines := strings.Split(strings.TrimSpace(string(content)), "\n")
		assert.Equal(t, "id,val", lines[0], "header re-attached to every chunk")
		collected = append(collected, lines[1:]...)
	}

	require.Len(t, collected, 7)
	for i, line := range collected {
		assert.Equal(t, string(rune('a'+i))+",v", line, "original row order preserved")
	}
}

func TestSplitRowsRejectsUndersizedDataset(t *testing.T) {
	ds := New([]string{"a"}, [][]string{{"1"}, {"2"}})
	_, err := SplitRows(ds, 5, "data")
	require.Error(t, err)
	assert.Equal(t, docerr.KindValidation, docerr.KindOf(err))
}

func TestSplitWorkbookBySheet(t *testing.T) {
	// Build a two-sheet workbook through the codec helpers.
	first := New([]string{"a"}, [][]string{{"1"}})
	wb, err := XLSXCodec{}.Encode(first)
	require.NoError(t, err)

	// Single sheet: nothing to split.
	_, err = SplitWorkbookBySheet(wb)
	require.Error(t, err)
	assert.Equal(t, docerr.KindValidation, docerr.KindOf(err))
}

func TestJSONToXMLAndBack(t *testing.T) {
	input := []byte(`{"order": {"id": 7, "items": [{"sku": "A"}, {"sku": "B"}]}}`)
	xmlOut, err := JSONToXML(input)
	require.NoError(t, err)
	assert.Contains(t, string(xmlOut), "<order>")
	assert.Contains(t, string(xmlOut), "<sku>A</sku>")

	jsonOut, err := XMLToJSON(xmlOut)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(jsonOut, &parsed))
	order, ok := parsed["order"].(map[string]any)
	require.True(t, ok)
	items, ok := order["items"].([]any)
	require.True(t, ok, "repeated siblings collapse into an array")
	assert.Len(t, items, 2)
}

func TestRenderHTMLEscapesCells(t *testing.T) {
	ds := New([]string{"col<1>"}, [][]string{{"<script>"}})
	out := RenderHTML([]string{"Sheet & Co"}, []*Dataset{ds})
	assert.Contains(t, out, "Sheet &amp; Co")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<script>")
}
