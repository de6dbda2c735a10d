// Package bwatest provides test helpers for bwa applications.
//
// It constructs the identical DI graph as [bwa.NewApp] but uses
// [fxtest.App] which fails the test immediately on DI errors.
//
// Example:
//
//	bwatest.SetBaseEnv(t, 18081)
//	app := bwatest.New[TestEnv](t, routing, bwa.WithFx(fx.Provide(NewHandlers)))
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package bwatest

import (
	"testing"

	"github.com/advdv/bwire/bwa"
	"go.uber.org/fx/fxtest"
)

// App embeds *fxtest.App for testing bwa applications.
type App struct {
	*fxtest.App
}

// New creates a test app with the same DI graph as [bwa.NewApp].
func New[E bwa.Environment](t testing.TB, routing any, opts ...bwa.Option) *App {
	return &App{App: fxtest.New(t, bwa.FxOptions[E](routing, opts...)...)}
}
