// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package models

import (
	"testing"

	"github.com/dalzilio/ldd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCyclersReachable(t *testing.T) {
	for n := 1; n <= 5; n++ {
		assert.Len(t, Cyclers(n).Reachable(), n<<(n+1), "cyclers(%d)", n)
	}
}

func TestBuild(t *testing.T) {
	for _, m := range []*Model{Cyclers(3), Counter(4, 3)} {
		t.Run(m.Name, func(t *testing.T) {
			e, err := ldd.New(ldd.Nodestep(10))
			require.NoError(t, err)
			d, err := e.NewDomain(m.Size)
			require.NoError(t, err)

			init, rels, err := m.Build(d, false)
			require.NoError(t, err)
			require.Len(t, rels, len(m.Groups))
			assert.Equal(t, 1.0, init.Cardinality())

			reach := d.NewSet()
			reach.LeastFixpoint(init, rels...)
			explicit := m.Reachable()
			assert.Equal(t, float64(len(explicit)), reach.Cardinality())
			for _, v := range explicit {
				assert.True(t, reach.Member(v), "%v", v)
			}

			init, lazy, err := m.Build(d, true)
			require.NoError(t, err)
			for _, rel := range lazy {
				assert.True(t, rel.IsEmpty())
			}
			other := d.NewSet()
			other.LeastFixpoint(init, lazy...)
			assert.True(t, other.Equal(reach))
		})
	}
}

func TestBuildSize(t *testing.T) {
	e, err := ldd.New(ldd.Nodestep(10))
	require.NoError(t, err)
	d, err := e.NewDomain(2)
	require.NoError(t, err)
	_, _, err = Cyclers(3).Build(d, false)
	assert.Error(t, err)
}
