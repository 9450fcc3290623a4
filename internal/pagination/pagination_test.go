package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{name: "defaults", in: Params{}, want: Params{Page: 1, PerPage: 15}},
		{name: "clamps per page", in: Params{Page: 3, PerPage: 1000}, want: Params{Page: 3, PerPage: 100}},
		{name: "negative page", in: Params{Page: -2, PerPage: 10}, want: Params{Page: 1, PerPage: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize(15, 100))
		})
	}
}

func TestOffsetAndMeta(t *testing.T) {
	p := Params{Page: 3, PerPage: 20}
	assert.Equal(t, 40, p.Offset())
	assert.Equal(t, 20, p.Limit())

	meta := NewMeta(p, 41)
	assert.Equal(t, 3, meta.LastPage)
	assert.Equal(t, 1, NewMeta(p, 0).LastPage)
}
