//go:build cgo

package xgb_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/rocketbitz/xgboost-go/xgb"
)

func TestNativeRegressionScenario(t *testing.T) {
	engine := xgb.NativeEngine()
	xs, ys := demoData()

	model := xgb.NewModel(engine, 200)
	defer model.Close()
	err := xgb.DefaultRegressionParams().Each(func(name, value string) error {
		return model.SetParam(name, value)
	})
	if err != nil {
		t.Fatalf("SetParam: %v", err)
	}
	if err := model.Fit(xs, ys, demoRows, demoCols); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	preds, err := model.Predict(xs, demoRows, demoCols)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(preds) != demoRows {
		t.Fatalf("expected %d predictions, got %d", demoRows, len(preds))
	}
	for i, p := range preds {
		if math.IsNaN(float64(p)) || math.IsInf(float64(p), 0) {
			t.Fatalf("prediction %d is not finite: %v", i, p)
		}
		tol := 0.25*math.Abs(float64(ys[i])) + 1
		if math.Abs(float64(p-ys[i])) > tol {
			t.Fatalf("prediction %d = %v, want %v within %v", i, p, ys[i], tol)
		}
	}

	path := filepath.Join(t.TempDir(), "scenario.model")
	if err := model.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := xgb.LoadModel(engine, path)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	defer loaded.Close()
	if loaded.Cols() != demoCols {
		t.Fatalf("loaded cols = %d, want %d", loaded.Cols(), demoCols)
	}
	again, err := loaded.Predict(xs, demoRows, demoCols)
	if err != nil {
		t.Fatalf("Predict on loaded model: %v", err)
	}
	for i := range preds {
		if math.Abs(float64(preds[i]-again[i])) > 1e-5 {
			t.Fatalf("round trip prediction %d = %v, want %v", i, again[i], preds[i])
		}
	}
}

func TestNativeEngineVersion(t *testing.T) {
	v, err := xgb.NativeEngine().Version()
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v.Major < 1 {
		t.Fatalf("unexpected native version %s", v)
	}
	if err := xgb.CheckNativeVersion(xgb.Version{Major: 1}); err != nil {
		t.Fatalf("CheckNativeVersion: %v", err)
	}
	if err := xgb.CheckNativeVersion(xgb.Version{Major: v.Major + 1}); err == nil {
		t.Fatalf("expected a newer minimum to be rejected")
	}
}
