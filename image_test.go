// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPrevToggle(t *testing.T) {
	d := testDomain(t, 2)
	rel, err := d.NewRelation([]int{1})
	require.NoError(t, err)
	rel.Add([]int{0}, []int{1})
	rel.Add([]int{1}, []int{0})
	assert.Equal(t, 2.0, rel.Cardinality())

	src := d.NewSet()
	src.Add([]int{0, 0})
	dst := d.NewSet()
	dst.Next(src, rel)
	assert.Equal(t, []string{"[0 1]"}, elements(t, dst))

	univ := d.NewSet()
	for _, v := range [][]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
		univ.Add(v)
	}
	pre := d.NewSet()
	pre.Prev(dst, rel, univ)
	assert.Equal(t, []string{"[0 0]"}, elements(t, pre))

	// the universe restricts the pre-image
	univ.Clear()
	univ.Add([]int{1, 1})
	pre.Prev(dst, rel, univ)
	assert.True(t, pre.IsEmpty())
}

func TestNextEmpty(t *testing.T) {
	d := testDomain(t, 2)
	rel, err := d.NewRelation([]int{0})
	require.NoError(t, err)
	src := d.NewSet()
	src.Add([]int{3, 4})
	dst := d.NewSet()
	dst.Next(src, rel)
	assert.True(t, dst.IsEmpty(), "image by an empty relation")

	rel.Add([]int{2}, []int{5})
	dst.Next(src, rel)
	assert.True(t, dst.IsEmpty(), "no matching value")

	// relation with an empty projection is the identity
	id, err := d.NewRelation(nil)
	require.NoError(t, err)
	id.Add([]int{}, []int{})
	dst.Next(src, id)
	assert.True(t, dst.Equal(src))
}

// image computes the image (or pre-image) of the vectors in set by the
// transitions in trans over levels, by brute force.
func image(set map[string][]int, levels []int, trans [][2][]int, backward bool) map[string][]int {
	res := make(map[string][]int)
	for _, v := range set {
		for _, tr := range trans {
			from, to := tr[0], tr[1]
			if backward {
				from, to = to, from
			}
			match := true
			for k, l := range levels {
				if v[l] != from[k] {
					match = false
					break
				}
			}
			if !match {
				continue
			}
			w := append([]int{}, v...)
			for k, l := range levels {
				w[l] = to[k]
			}
			res[fmt.Sprint(w)] = w
		}
	}
	return res
}

func TestImageRandom(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	d := testDomain(t, 5, Nodestep(8))
	for _, levels := range [][]int{{0}, {4}, {1, 3}, {0, 2, 4}, {0, 1, 2, 3, 4}} {
		t.Run(fmt.Sprint(levels), func(t *testing.T) {
			rel, err := d.NewRelation(levels)
			require.NoError(t, err)
			defer rel.Destroy()
			var trans [][2][]int
			for k := 0; k < 15; k++ {
				from := make([]int, len(levels))
				to := make([]int, len(levels))
				for i := range levels {
					from[i] = r.Intn(3)
					to[i] = r.Intn(3)
				}
				trans = append(trans, [2][]int{from, to})
				rel.Add(from, to)
			}
			mset := randomVectors(r, 80, 5, 3)
			set := setOf(d, mset)
			defer set.Destroy()

			dst := d.NewSet()
			defer dst.Destroy()
			dst.Next(set, rel)
			assert.Equal(t, keys(image(mset, levels, trans, false)), elements(t, dst), "next")

			univ := d.NewSet()
			defer univ.Destroy()
			univ.Universe(set)
			pre := d.NewSet()
			defer pre.Destroy()
			pre.Prev(set, rel, univ)
			expected := image(mset, levels, trans, true)
			for k, v := range expected {
				if !univ.Member(v) {
					delete(expected, k)
				}
			}
			assert.Equal(t, keys(expected), elements(t, pre), "prev")
		})
	}
}

func TestRelationErrors(t *testing.T) {
	d := testDomain(t, 3)
	_, err := d.NewRelation([]int{1, 1})
	assert.Error(t, err)
	_, err = d.NewRelation([]int{3})
	assert.Error(t, err)
	rel, err := d.NewRelation([]int{0, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, rel.Levels())
	assert.ErrorIs(t, Catch(func() { rel.Add([]int{1}, []int{1, 2}) }), ErrLength)

	other := testDomain(t, 4)
	s := other.NewSet()
	assert.ErrorIs(t, Catch(func() { s.Next(s, rel) }), ErrProjection)
	rel.Destroy()
	assert.ErrorIs(t, Catch(func() { rel.IsEmpty() }), ErrDestroyed)
}
