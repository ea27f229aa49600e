package objectstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObjectPath(t *testing.T) {
	p := NewObjectPath("Photo.JPG")
	assert.True(t, strings.HasPrefix(p, "/objects/uploads/"))
	assert.True(t, strings.HasSuffix(p, ".jpg"))

	other := NewObjectPath("Photo.JPG")
	assert.NotEqual(t, p, other)

	noExt := NewObjectPath("photo")
	assert.Len(t, strings.TrimPrefix(noExt, "/objects/uploads/"), 36)
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"upload", "/objects/uploads/abc.png", "uploads/abc.png", false},
		{"missing prefix", "/uploads/abc.png", "", true},
		{"empty key", "/objects/", "", true},
		{"traversal", "/objects/../secret", "", true},
		{"double slash", "/objects/uploads//abc.png", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ObjectKey(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, key)
		})
	}
}
