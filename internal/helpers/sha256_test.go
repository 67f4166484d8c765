package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty string",
			in:   "",
			want: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name: "basic string",
			in:   "hello world",
			want: "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SHA256(tt.in)
			require.Equal(t, tt.want, got)
			assert.Equal(t, got, SHA256Bytes([]byte(tt.in)))
		})
	}
}

func TestSHA256BytesNonUTF8(t *testing.T) {
	t.Parallel()
	got := SHA256Bytes([]byte{0xff, 0xfe, 0x00})
	assert.Len(t, got, 64)
	assert.NotEqual(t, SHA256(""), got)
}
