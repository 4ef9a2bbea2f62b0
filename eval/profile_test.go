package eval

import (
	"image/color"
	"testing"
	"time"

	"github.com/aerosolmodel/aerodist"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

// TestSpectrumPlot draws the time-averaged number spectrum of a
// simulated day of measurements on a logarithmic diameter axis.
func TestSpectrumPlot(t *testing.T) {
	if testing.Short() {
		return
	}
	start := time.Date(2012, time.March, 1, 0, 0, 0, 0, time.UTC)
	ts, err := aerodist.SimulateTS(aerodist.SimConfig{},
		start, start.Add(24*time.Hour), 10*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	avg, err := ts.AverageAll().Convert(aerodist.DNdlogDp)
	if err != nil {
		t.Fatal(err)
	}
	centers := avg.Centers()
	row := avg.Row(0)
	xy := make(plotter.XYs, len(centers))
	for i := range centers {
		xy[i].X = centers[i]
		xy[i].Y = row[i]
	}
	p, err := plot.New()
	if err != nil {
		t.Fatal(err)
	}
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{}
	p.X.Label.Text = "Diameter (nm)"
	p.Y.Label.Text = "dN/dlogDp (1/cm³)"
	l, err := plotter.NewLine(xy)
	if err != nil {
		t.Fatal(err)
	}
	l.Color = color.NRGBA{0, 0, 0, 255}
	p.Add(l)
	writePlot(t, p, "simulatedSpectrum.png")
}

// TestVerticalProfile draws total particle counts per layer against
// altitude for a simulated aerosol column.
func TestVerticalProfile(t *testing.T) {
	if testing.Short() {
		return
	}
	ls, err := aerodist.SimulateLS(aerodist.SimConfig{}, aerodist.LayerSimConfig{})
	if err != nil {
		t.Fatal(err)
	}
	counts, err := ls.Convert(aerodist.NumberConcentration)
	if err != nil {
		t.Fatal(err)
	}
	centers := counts.LayerCenters()
	xy := make(plotter.XYs, len(centers))
	for i, h := range centers {
		var total float64
		for _, v := range counts.Row(i) {
			total += v
		}
		xy[i].X = total
		xy[i].Y = h
	}
	p, err := plot.New()
	if err != nil {
		t.Fatal(err)
	}
	p.X.Label.Text = "Number concentration (1/cm³)"
	p.Y.Label.Text = "Altitude (m)"
	l, err := plotter.NewLine(xy)
	if err != nil {
		t.Fatal(err)
	}
	l.Color = color.NRGBA{0, 0, 0, 255}
	p.Add(l)
	writePlot(t, p, "verticalProfile.png")
}
