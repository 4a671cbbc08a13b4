package printer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"none", Options{Type: TypeNone}, false},
		{"empty type", Options{}, false},
		{"usb", Options{Type: TypeUSB, USBPath: "/dev/usb/lp0"}, false},
		{"usb without path", Options{Type: TypeUSB}, true},
		{"network", Options{Type: TypeNetwork, Address: "127.0.0.1:9100"}, false},
		{"network without address", Options{Type: TypeNetwork}, true},
		{"unknown", Options{Type: "bluetooth"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, p)
		})
	}
}

func TestColumns(t *testing.T) {
	line := Columns(20, "Total:", "R$ 10,00")
	assert.Equal(t, 20, len([]rune(line)))
	assert.Equal(t, "Total:      R$ 10,00", line)

	// accented runes count as one column
	line = Columns(12, "Cartão", "1,00")
	assert.Equal(t, 12, len([]rune(line)))

	assert.Equal(t, "abcdef xyz", Columns(4, "abcdef", "xyz"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Batom", Truncate("Batom", 10))
	assert.Equal(t, "Pó C", Truncate("Pó Compacto", 4))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestDocument(t *testing.T) {
	doc := NewDocument(0)
	assert.Equal(t, Width80mm, doc.Width())

	doc.Text("Promoção")
	out := doc.Bytes()

	assert.True(t, bytes.HasPrefix(out, []byte{ESC, '@', ESC, 't', codePagePortuguese}))
	// ç and ã are single bytes in code page 860
	assert.True(t, bytes.HasSuffix(out, []byte{'P', 'r', 'o', 'm', 'o', 0x87, 0x84, 'o', LF}))
}

func TestDocument_ItemLineWidth(t *testing.T) {
	doc := NewDocument(Width58mm)
	doc.Reset()
	before := len(doc.Bytes())

	doc.ItemLine(2, "Kit Maquiagem Completo Edicao Especial", "159,90")
	line := doc.Bytes()[before:]

	assert.Equal(t, Width58mm+1, len(line)) // plus LF
	assert.True(t, bytes.HasPrefix(line, []byte("2x Kit")))
	assert.True(t, bytes.HasSuffix(line, []byte("159,90\n")))
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	assert.Nil(t, r.Last())

	require.NoError(t, r.Print([]byte("a")))
	require.NoError(t, r.Print([]byte("b")))
	assert.Equal(t, []byte("b"), r.Last())
	assert.Len(t, r.Jobs, 2)
	assert.True(t, r.IsConnected())

	r.Err = errors.New("paper out")
	assert.Error(t, r.Print([]byte("c")))
	assert.False(t, r.IsConnected())
}
