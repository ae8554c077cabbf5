package xgb_test

import (
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/rocketbitz/xgboost-go/xgb"
)

func TestParamsLastWriteWins(t *testing.T) {
	p := xgb.NewParams()
	p.Set("max_depth", "3").Set("max_depth", "5").Set("eta", "0.1")

	if p.Len() != 2 {
		t.Fatalf("expected 2 params, got %d", p.Len())
	}
	if v, ok := p.Get("max_depth"); !ok || v != "5" {
		t.Fatalf("max_depth = %q (%v), want 5", v, ok)
	}
	if _, ok := p.Get("missing"); ok {
		t.Fatalf("unexpected value for unset name")
	}
}

func TestParamsSortedIteration(t *testing.T) {
	p := xgb.NewParams().Set("subsample", "0.5").Set("booster", "gbtree").Set("eta", "0.1")

	want := []string{"booster", "eta", "subsample"}
	if got := p.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}

	var seen []string
	stop := errors.New("stop")
	err := p.Each(func(name, _ string) error {
		seen = append(seen, name)
		if name == "eta" {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected Each to return the callback error, got %v", err)
	}
	if !reflect.DeepEqual(seen, want[:2]) {
		t.Fatalf("Each visited %v", seen)
	}
}

func TestParamsCloneAndMerge(t *testing.T) {
	base := xgb.DefaultRegressionParams()
	clone := base.Clone()
	clone.Set("eta", "0.3")

	if v, _ := base.Get("eta"); v != "0.1" {
		t.Fatalf("clone mutated original: eta=%s", v)
	}

	merged := xgb.NewParams().Set("eta", "1").Merge(clone).Merge(nil)
	if v, _ := merged.Get("eta"); v != "0.3" {
		t.Fatalf("merge did not overwrite: eta=%s", v)
	}
	m := merged.Map()
	m["eta"] = "9"
	if v, _ := merged.Get("eta"); v != "0.3" {
		t.Fatalf("Map exposed internal state")
	}
}

func TestDefaultRegressionParams(t *testing.T) {
	want := map[string]string{
		"booster":           "gbtree",
		"objective":         "reg:linear",
		"max_depth":         "5",
		"eta":               "0.1",
		"min_child_weight":  "1",
		"subsample":         "0.5",
		"colsample_bytree":  "1",
		"num_parallel_tree": "1",
	}
	if got := xgb.DefaultRegressionParams().Map(); !reflect.DeepEqual(got, want) {
		t.Fatalf("DefaultRegressionParams = %v", got)
	}
}
