package kvconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type pair struct {
	Key   string
	Value string
}

func scanAll(buf []byte) []pair {
	s := NewScanner(buf)
	var pairs []pair
	for {
		k, v, ok := s.Next()
		if !ok {
			return pairs
		}
		pairs = append(pairs, pair{Key: k, Value: v})
	}
}

func TestScan(t *testing.T) {
	pairs := scanAll([]byte("entry=Ubuntu Live\nfamily=ubuntu\nkernel=/casper/vmlinuz\n"))
	require.Equal(t, []pair{
		{"entry", "Ubuntu Live"},
		{"family", "ubuntu"},
		{"kernel", "/casper/vmlinuz"},
	}, pairs)
}

func TestScanNoTrailingNewline(t *testing.T) {
	pairs := scanAll([]byte("entry=A\nfamily=debian"))
	require.Equal(t, []pair{
		{"entry", "A"},
		{"family", "debian"},
	}, pairs)
}

func TestScanBlankLinesSkipped(t *testing.T) {
	pairs := scanAll([]byte("\n\nentry=A\n\n\nfamily=tails\n\n"))
	require.Equal(t, []pair{
		{"entry", "A"},
		{"family", "tails"},
	}, pairs)
}

func TestScanLinesWithoutSeparatorSkipped(t *testing.T) {
	pairs := scanAll([]byte("garbage line\nentry=A\nanother one\n"))
	require.Equal(t, []pair{
		{"entry", "A"},
	}, pairs)
}

func TestScanWhitespaceTrimmed(t *testing.T) {
	pairs := scanAll([]byte("  entry =  Kali Linux \t\n\tkernel=/live/vmlinuz\r\n"))
	require.Equal(t, []pair{
		{"entry", "Kali Linux"},
		{"kernel", "/live/vmlinuz"},
	}, pairs)
}

func TestScanEmptyValue(t *testing.T) {
	pairs := scanAll([]byte("family=\n"))
	require.Equal(t, []pair{
		{"family", ""},
	}, pairs)
}

func TestScanEmptyKeySkipped(t *testing.T) {
	pairs := scanAll([]byte("=value\nentry=A\n"))
	require.Equal(t, []pair{
		{"entry", "A"},
	}, pairs)
}

func TestScanValueWithSeparator(t *testing.T) {
	pairs := scanAll([]byte("entry=name=with=equals\n"))
	require.Equal(t, []pair{
		{"entry", "name=with=equals"},
	}, pairs)
}

func TestScanEmptyBuffer(t *testing.T) {
	require.Empty(t, scanAll(nil))
	require.Empty(t, scanAll([]byte{}))
}

func TestScanCopiesOutlastBuffer(t *testing.T) {
	buf := []byte("entry=Ubuntu\n")
	s := NewScanner(buf)
	k, v, ok := s.Next()
	require.True(t, ok)
	for i := range buf {
		buf[i] = 'x'
	}
	require.Equal(t, "entry", k)
	require.Equal(t, "Ubuntu", v)
}
