package deck

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var colorNames = map[string]string{
	"W": "White",
	"U": "Blue",
	"B": "Black",
	"R": "Red",
	"G": "Green",
	"C": "Colorless",
}

// RenderManaCurve writes an interactive bar chart of the deck's mana
// curve as a standalone HTML page.
func RenderManaCurve(stats *Statistics, deckName string, w io.Writer) error {
	maxCMC := 0
	for cmc := range stats.ManaCurve {
		if cmc > maxCMC {
			maxCMC = cmc
		}
	}

	labels := make([]string, 0, maxCMC+1)
	data := make([]opts.BarData, 0, maxCMC+1)
	for cmc := 0; cmc <= maxCMC; cmc++ {
		labels = append(labels, fmt.Sprintf("%d", cmc))
		data = append(data, opts.BarData{Value: stats.ManaCurve[cmc]})
	}

	bar := newBarChart(deckName+" - Mana Curve", "Cards per converted mana cost")
	bar.SetXAxis(labels).
		AddSeries("Cards", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:     opts.Bool(true),
				Position: "top",
			}),
		)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render mana curve chart: %w", err)
	}
	return nil
}

// RenderColorDistribution writes a bar chart of color pip counts.
func RenderColorDistribution(stats *Statistics, deckName string, w io.Writer) error {
	order := []string{"W", "U", "B", "R", "G", "C"}

	var labels []string
	var data []opts.BarData
	for _, code := range order {
		count, ok := stats.ColorDistribution[code]
		if !ok {
			continue
		}
		labels = append(labels, colorNames[code])
		data = append(data, opts.BarData{Value: count})
	}

	bar := newBarChart(deckName+" - Color Distribution", "Mana pips by color")
	bar.SetXAxis(labels).
		AddSeries("Pips", data)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render color distribution chart: %w", err)
	}
	return nil
}

// RenderTypeDistribution writes a bar chart of card counts by main type.
func RenderTypeDistribution(stats *Statistics, deckName string, w io.Writer) error {
	types := make([]string, 0, len(stats.TypeDistribution))
	for t := range stats.TypeDistribution {
		types = append(types, t)
	}
	sort.Strings(types)

	var data []opts.BarData
	for _, t := range types {
		data = append(data, opts.BarData{Value: stats.TypeDistribution[t]})
	}

	bar := newBarChart(deckName+" - Card Types", "Cards by main type")
	bar.SetXAxis(types).
		AddSeries("Cards", data)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render type distribution chart: %w", err)
	}
	return nil
}

func newBarChart(title, subtitle string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "900px",
			Height: "500px",
			Theme:  "light",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
	)
	return bar
}
