package form_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-xzqh/pkg/form"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		snap form.Snapshot
		want form.Verdict
	}{
		{
			name: "start after end",
			snap: form.Snapshot{StartYear: 2020, EndYear: 2010, Levels: form.NewLevelSet(form.LevelCity)},
			want: form.Verdict{Message: form.MsgYearOrder},
		},
		{
			name: "year order wins over empty levels",
			snap: form.Snapshot{StartYear: 2020, EndYear: 2010},
			want: form.Verdict{Message: form.MsgYearOrder},
		},
		{
			name: "no levels",
			snap: form.Snapshot{StartYear: 2010, EndYear: 2020},
			want: form.Verdict{Message: form.MsgLevelsRequired},
		},
		{
			name: "province with parent",
			snap: form.Snapshot{StartYear: 2010, EndYear: 2020, Levels: form.NewLevelSet(form.LevelProvince), IncludeParent: true},
			want: form.Verdict{Message: form.MsgProvinceParent},
		},
		{
			name: "province without parent",
			snap: form.Snapshot{StartYear: 2010, EndYear: 2020, Levels: form.NewLevelSet(form.LevelProvince)},
			want: form.Verdict{OK: true},
		},
		{
			name: "city with parent",
			snap: form.Snapshot{StartYear: 2010, EndYear: 2020, Levels: form.NewLevelSet(form.LevelCity), IncludeParent: true},
			want: form.Verdict{OK: true},
		},
		{
			name: "single year",
			snap: form.Snapshot{StartYear: 2015, EndYear: 2015, Levels: form.NewLevelSet(form.LevelCounty)},
			want: form.Verdict{OK: true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := form.Validate(tc.snap); got != tc.want {
				t.Fatalf("verdict mismatch: want %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestVerdictErr(t *testing.T) {
	if err := (form.Verdict{OK: true}).Err(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	err := form.Validate(form.Snapshot{StartYear: 2010, EndYear: 2020}).Err()
	if !errors.Is(err, form.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var verr *form.ValidationError
	if !errors.As(err, &verr) || verr.Message != form.MsgLevelsRequired {
		t.Fatalf("unexpected validation error %#v", err)
	}
}
