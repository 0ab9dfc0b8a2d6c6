package listquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAll(t *testing.T) {
	for _, v := range []string{"", "all", "ALL", "todas", "Todos", " todos "} {
		assert.True(t, IsAll(v), v)
	}
	for _, v := range []string{"PUBLICADO", "NUEVA", "allx"} {
		assert.False(t, IsAll(v), v)
	}
}

func TestQuery_Values(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want string
	}{
		{
			name: "defaults",
			q:    Query{},
			want: "page=1",
		},
		{
			name: "full",
			q: Query{
				Page: 3, Limit: 20, Search: " sol ",
				Filters: map[string]string{"categoria": "EVENTO", "estado": "todos"},
			},
			want: "categoria=EVENTO&limit=20&page=3&search=sol",
		},
		{
			name: "all sentinels omitted",
			q:    Query{Page: 1, Filters: map[string]string{"a": "", "b": "Todas", "c": "all"}},
			want: "page=1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.Values().Encode())
		})
	}
}

func TestQuery_Filter(t *testing.T) {
	q := Query{Filters: map[string]string{"estado": "todas", "categoria": "OTRO"}}
	assert.Equal(t, "", q.Filter("estado"))
	assert.Equal(t, "OTRO", q.Filter("categoria"))
	assert.Equal(t, "", q.Filter("missing"))
}
