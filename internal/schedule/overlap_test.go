package schedule

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_fitsSorted(t *testing.T) {
	type args struct {
		scheduled [][2]int64
		toAdd     [2]int64
	}

	type testcase struct {
		name string
		args args

		wantIdx int
		wantOk  bool
	}

	tests := [...]testcase{
		{
			name: "add to empty",
			args: args{
				scheduled: nil,
				toAdd:     [2]int64{2, 4},
			},
			wantIdx: 0,
			wantOk:  true,
		},
		{
			name: "add to the end",
			args: args{
				scheduled: [][2]int64{{0, 2}, {2, 3}},
				toAdd:     [2]int64{3, 4},
			},
			wantIdx: 2,
			wantOk:  true,
		},
		{
			name: "add to the middle",
			args: args{
				scheduled: [][2]int64{{0, 2}, {2, 3}, {4, 5}},
				toAdd:     [2]int64{3, 4},
			},
			wantIdx: 2,
			wantOk:  true,
		},
		{
			name: "add to the beginning",
			args: args{
				scheduled: [][2]int64{{2, 3}, {3, 4}},
				toAdd:     [2]int64{0, 1},
			},
			wantIdx: 0,
			wantOk:  true,
		},
		{
			name: "overlap first",
			args: args{
				scheduled: [][2]int64{{2, 3}, {3, 4}},
				toAdd:     [2]int64{0, 3},
			},
			wantIdx: 0,
			wantOk:  false,
		},
		{
			name: "overlap last",
			args: args{
				scheduled: [][2]int64{{2, 3}, {3, 5}},
				toAdd:     [2]int64{4, 6},
			},
			wantIdx: 2,
			wantOk:  false,
		},
		{
			name: "no space between neighbours",
			args: args{
				scheduled: [][2]int64{{0, 2}, {2, 3}},
				toAdd:     [2]int64{1, 2},
			},
			wantIdx: 1,
			wantOk:  false,
		},
		{
			name: "covers many",
			args: args{
				scheduled: [][2]int64{{0, 1}, {1, 2}, {2, 3}, {4, 6}},
				toAdd:     [2]int64{1, 8},
			},
			wantIdx: 1,
			wantOk:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotIdx, gotOk := fitsSorted(tt.args.scheduled, tt.args.toAdd)
			require.Equal(t, tt.wantIdx, gotIdx)
			require.Equal(t, tt.wantOk, gotOk)

			require.NotPanics(t, func() {
				tt.args.scheduled = slices.Insert(tt.args.scheduled, gotIdx, tt.args.toAdd)
			})
		})
	}
}

func TestOverlaps(t *testing.T) {
	// half-open windows: touching ends do not overlap
	require.False(t, Overlaps([2]int64{0, 10}, [2]int64{10, 20}))
	require.False(t, Overlaps([2]int64{10, 20}, [2]int64{0, 10}))

	require.True(t, Overlaps([2]int64{0, 10}, [2]int64{9, 20}))
	require.True(t, Overlaps([2]int64{0, 10}, [2]int64{3, 5}))
	require.True(t, Overlaps([2]int64{3, 5}, [2]int64{0, 10}))
}
