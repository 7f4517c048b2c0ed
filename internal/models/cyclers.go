// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package models

import "fmt"

// Cyclers returns Milner's scheduler with n cyclers. Each cycler i has three
// boolean levels: c (3i), t (3i+1) and h (3i+2). Only cycler 0 starts with c
// set. The number of reachable states is n * 2^(n+1).
func Cyclers(n int) *Model {
	m := &Model{
		Name:    fmt.Sprintf("cyclers(%d)", n),
		Size:    3 * n,
		Values:  2,
		Initial: make([]int, 3*n),
	}
	m.Initial[0] = 1
	for i := 0; i < n; i++ {
		c, t, h := 3*i, 3*i+1, 3*i+2
		// take the token: c && !t -> !c, t, h
		m.Groups = append(m.Groups, Group{
			Levels: []int{c, t, h},
			Next: func(src []int) [][]int {
				if src[0] == 1 && src[1] == 0 {
					return [][]int{{0, 1, 1}}
				}
				return nil
			},
		})
		// pass the token: h -> !h, c of the next cycler
		cnext := 3 * ((i + 1) % n)
		if cnext < h {
			m.Groups = append(m.Groups, Group{
				Levels: []int{cnext, h},
				Next: func(src []int) [][]int {
					if src[1] == 1 {
						return [][]int{{1, 0}}
					}
					return nil
				},
			})
		} else {
			m.Groups = append(m.Groups, Group{
				Levels: []int{h, cnext},
				Next: func(src []int) [][]int {
					if src[0] == 1 {
						return [][]int{{0, 1}}
					}
					return nil
				},
			})
		}
		// end of task: t -> !t
		m.Groups = append(m.Groups, Group{
			Levels: []int{t},
			Next: func(src []int) [][]int {
				if src[0] == 1 {
					return [][]int{{0}}
				}
				return nil
			},
		})
	}
	return m
}

// Counter returns a system with size counters with values in [0..max). Each
// counter can be incremented if it is smaller than the next one (or than max
// for the last counter). It is used to test relations with gaps between their
// levels.
func Counter(size, max int) *Model {
	m := &Model{
		Name:    fmt.Sprintf("counter(%d,%d)", size, max),
		Size:    size,
		Values:  max,
		Initial: make([]int, size),
	}
	for i := 0; i < size-1; i++ {
		m.Groups = append(m.Groups, Group{
			Levels: []int{i, i + 1},
			Next: func(src []int) [][]int {
				if src[0] < src[1] {
					return [][]int{{src[0] + 1, src[1]}}
				}
				return nil
			},
		})
	}
	m.Groups = append(m.Groups, Group{
		Levels: []int{size - 1},
		Next: func(src []int) [][]int {
			if src[0]+1 < max {
				return [][]int{{src[0] + 1}}
			}
			return nil
		},
	})
	if size > 2 {
		// wrap around: reset the first counter, skipping the levels in between
		m.Groups = append(m.Groups, Group{
			Levels: []int{0, size - 1},
			Next: func(src []int) [][]int {
				if src[0] > 0 && src[1] == max-1 {
					return [][]int{{0, src[1]}}
				}
				return nil
			},
		})
	}
	return m
}
