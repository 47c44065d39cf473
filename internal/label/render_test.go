package label

import (
	"bytes"
	"compress/zlib"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPODisplay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12345", "PO# 12345"},
		{"PO# 12345", "PO# 12345"},
		{"PO#900", "PO#900"},
		{"po# 12345", "po# 12345"},
		{"Po#77", "Po#77"},
		{"", ""},
		{NoPONumber, "PO# " + NoPONumber},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PODisplay(tt.in), "input %q", tt.in)
	}
}

func TestRenderProducesPDF(t *testing.T) {
	pdf, err := Render(Data{
		ClientName:      "Acme",
		ItemDescription: "Widget A\nSecond line",
		PONumber:        "PO#900",
	})
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

// contentStreams inflates every compressed stream object in a PDF so tests
// can look at the text operators the renderer emitted.
func contentStreams(t *testing.T, pdf []byte) []byte {
	t.Helper()
	var out bytes.Buffer
	rest := pdf
	for {
		start := bytes.Index(rest, []byte("stream\n"))
		if start < 0 {
			break
		}
		rest = rest[start+len("stream\n"):]
		end := bytes.Index(rest, []byte("endstream"))
		if end < 0 {
			break
		}
		r, err := zlib.NewReader(bytes.NewReader(rest[:end]))
		if err == nil {
			inflated, _ := io.ReadAll(r)
			r.Close()
			out.Write(inflated)
		}
		rest = rest[end:]
	}
	return out.Bytes()
}

func TestRenderNonASCIIClientName(t *testing.T) {
	pdf, err := Render(Data{
		ClientName:      "Müller GmbH",
		ItemDescription: "Widget A",
		PONumber:        "PO#900",
	})
	require.NoError(t, err)

	content := contentStreams(t, pdf)
	require.NotEmpty(t, content)

	// Core fonts are CP1252: "ü" must land as 0xFC, not as raw UTF-8.
	assert.Contains(t, string(content), "M\xfcller GmbH")
	assert.NotContains(t, string(content), "M\xc3\xbcller")
}

func TestRenderPlaceholders(t *testing.T) {
	pdf, err := Render(Data{
		ClientName:      NoClientName,
		ItemDescription: NoItemDescription,
		PONumber:        NoPONumber,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
