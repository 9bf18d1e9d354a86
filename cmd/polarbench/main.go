// PolarBench — Interactive Polarization Optics Bench
//
// A cross-platform desktop application for building virtual optical
// benches, tracing polarized light with Jones calculus, and exploring
// interference colors between crossed polarizers.
//
// Build:
//   go build -o polarbench ./cmd/polarbench
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o polarbench.exe ./cmd/polarbench
//   GOOS=darwin  GOARCH=amd64 go build -o polarbench-darwin ./cmd/polarbench
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/PolarBench/internal/ui"
)

func main() {
	application := app.NewWithID("com.piwi3910.polarbench")
	application.Settings().SetTheme(ui.NewPolarBenchTheme())

	window := application.NewWindow("PolarBench — Polarization Optics Bench")

	appUI := ui.NewApp(application, window)
	appUI.SetupMenus() // Setup the native menu bar
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1280, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
}
