package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name       string
		number     int
		size       int
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", number: 0, size: 0, wantLimit: DefaultPageSize, wantOffset: 0},
		{name: "third page", number: 3, size: 20, wantLimit: 20, wantOffset: 40},
		{name: "negative page", number: -2, size: 10, wantLimit: 10, wantOffset: 0},
		{name: "size capped", number: 2, size: 1000, wantLimit: MaxPageSize, wantOffset: MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage(tt.number, tt.size)
			assert.Equal(t, tt.wantLimit, p.Limit())
			assert.Equal(t, tt.wantOffset, p.Offset())
		})
	}
}
