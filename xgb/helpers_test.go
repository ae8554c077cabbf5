package xgb_test

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	demoRows = 5
	demoCols = 3
)

// demoData returns the reference regression set: x[i][j] = (i+1)*(j+1) and
// y[i] = 1 + i^3.
func demoData() ([]float32, []float32) {
	xs := make([]float32, demoRows*demoCols)
	ys := make([]float32, demoRows)
	for i := 0; i < demoRows; i++ {
		for j := 0; j < demoCols; j++ {
			xs[i*demoCols+j] = float32((i + 1) * (j + 1))
		}
		ys[i] = float32(1 + i*i*i)
	}
	return xs, ys
}

func newObservedLogger() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core).Sugar(), logs
}
