package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/heroguess/internal/compare"
	"github.com/robalobadob/heroguess/internal/hero"
	"github.com/robalobadob/heroguess/internal/match"
)

func pair() hero.Dataset {
	return hero.Dataset{
		{Name: "Anivia", Role: "Mage", Year: "2009"},
		{Name: "Annie", Role: "Mage", Year: "2009"},
	}
}

func classOf(t *testing.T, r *GuessResult, attr string) compare.Class {
	t.Helper()
	for _, a := range r.Attributes {
		if a.Name == attr {
			return a.Class
		}
	}
	t.Fatalf("attribute %q missing", attr)
	return ""
}

func TestResolve_FuzzyToTarget(t *testing.T) {
	ds := pair()
	target := ds[0]

	o := Resolve("aniv", ds, &target, NewHistory(), match.DefaultTolerance)
	require.False(t, o.Rejected())
	assert.NoError(t, o.Err())
	assert.Equal(t, "Anivia", o.Result.Hero.Name)
	assert.True(t, o.Result.IsTarget)
	assert.Equal(t, compare.ClassExact, classOf(t, o.Result, hero.AttrRole))
}

func TestResolve_TypoToOtherHero(t *testing.T) {
	ds := pair()
	target := ds[0]

	o := Resolve("Annei", ds, &target, NewHistory(), match.DefaultTolerance)
	require.False(t, o.Rejected())
	assert.Equal(t, "Annie", o.Result.Hero.Name)
	assert.False(t, o.Result.IsTarget)
	assert.Equal(t, compare.ClassExact, classOf(t, o.Result, hero.AttrRole))
	assert.Equal(t, compare.ClassExact, classOf(t, o.Result, hero.AttrYear))
	assert.Equal(t, compare.ClassMismatch, classOf(t, o.Result, hero.AttrRegion))
	require.Len(t, o.Result.Attributes, len(hero.Attributes))
}

func TestResolve_ExactBeatsFuzzy(t *testing.T) {
	// "Vi" is within tolerance of many names; the exact match must win.
	ds := hero.Dataset{{Name: "Vex"}, {Name: "Vi"}, {Name: "Viego"}}
	target := ds[2]

	o := Resolve("  VI ", ds, &target, NewHistory(), match.DefaultTolerance)
	require.False(t, o.Rejected())
	assert.Equal(t, "Vi", o.Result.Hero.Name)
}

func TestResolve_Rejections(t *testing.T) {
	ds := pair()
	target := ds[0]

	tests := []struct {
		name    string
		raw     string
		heroes  hero.Dataset
		target  *hero.Hero
		history History
		want    Reason
		wantErr error
	}{
		{name: "empty", raw: "   ", heroes: ds, target: &target, want: ReasonEmptyInput, wantErr: ErrEmptyInput},
		{name: "no dataset", raw: "annie", heroes: nil, target: &target, want: ReasonDatasetUnready, wantErr: ErrDatasetUnready},
		{name: "no target", raw: "annie", heroes: ds, target: nil, want: ReasonTargetUnready, wantErr: ErrTargetUnready},
		{name: "repeat", raw: "Annie", heroes: ds, target: &target, history: History{"annie": {}}, want: ReasonAlreadyGuessed, wantErr: ErrAlreadyGuessed},
		{name: "unknown", raw: "zzz", heroes: ds, target: &target, want: ReasonNotFound, wantErr: ErrNotFound},
		{name: "empty beats unready", raw: "", heroes: nil, target: nil, want: ReasonEmptyInput, wantErr: ErrEmptyInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.history
			if h == nil {
				h = NewHistory()
			}
			before := len(h)

			o := Resolve(tt.raw, tt.heroes, tt.target, h, match.DefaultTolerance)
			require.True(t, o.Rejected())
			assert.Equal(t, tt.want, o.Reason)
			assert.ErrorIs(t, o.Err(), tt.wantErr)
			assert.NotEmpty(t, o.Reason.Message())
			assert.Len(t, h, before, "rejections must not touch history")
		})
	}
}

func TestResolve_SameNameTwice(t *testing.T) {
	ds := pair()
	target := ds[0]
	h := NewHistory()

	first := Resolve("Annie", ds, &target, h, match.DefaultTolerance)
	require.False(t, first.Rejected())
	assert.True(t, h.Has("annie"))

	second := Resolve("annie", ds, &target, h, match.DefaultTolerance)
	require.True(t, second.Rejected())
	assert.Equal(t, ReasonAlreadyGuessed, second.Reason)
}

func TestResolve_TypoOfEarlierGuessResolvesAgain(t *testing.T) {
	ds := pair()
	target := ds[0]
	h := NewHistory()

	first := Resolve("Annie", ds, &target, h, match.DefaultTolerance)
	require.False(t, first.Rejected())

	second := Resolve("Annei", ds, &target, h, match.DefaultTolerance)
	require.False(t, second.Rejected())
	assert.Equal(t, "Annie", second.Result.Hero.Name)
	assert.Len(t, h, 1)
}

func TestResolve_NilHistory(t *testing.T) {
	ds := pair()
	target := ds[0]

	var h History
	o := Resolve("Annie", ds, &target, h, match.DefaultTolerance)
	require.False(t, o.Rejected())
	assert.Equal(t, "Annie", o.Result.Hero.Name)
	assert.Nil(t, h)

	again := Resolve("Annie", ds, &target, h, match.DefaultTolerance)
	assert.False(t, again.Rejected())
}

func TestResolve_HistoryGrowsWithResolvedName(t *testing.T) {
	ds := pair()
	target := ds[1]
	h := NewHistory()

	o := Resolve("aniv", ds, &target, h, match.DefaultTolerance)
	require.False(t, o.Rejected())
	assert.True(t, h.Has("anivia"))
	assert.False(t, h.Has("aniv"))
	assert.Len(t, h, 1)
}

func TestResolve_ZeroToleranceDisablesFuzzy(t *testing.T) {
	ds := pair()
	target := ds[0]

	o := Resolve("aniv", ds, &target, NewHistory(), 0)
	assert.Equal(t, ReasonNotFound, o.Reason)
}

func TestResolve_DoesNotMutateInputs(t *testing.T) {
	ds := pair()
	target := ds[0]
	snapshot := append(hero.Dataset(nil), ds...)
	tgt := target

	Resolve("annie", ds, &target, NewHistory(), match.DefaultTolerance)
	assert.Equal(t, snapshot, ds)
	assert.Equal(t, tgt, target)
}
