package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/quantbt/qbt/backtester/engine"
	qbtcommon "github.com/quantbt/qbt/common"
)

var lineColours = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b", "#e377c2"}

// createEquityChart plots the equity of every track over time
func createEquityChart(tracks []*engine.Track) (*Chart, error) {
	if tracks == nil {
		return nil, fmt.Errorf("%w missing tracks", qbtcommon.ErrNilPointer)
	}
	response := &Chart{
		Name:     "Equity",
		AxisType: "linear",
	}
	for i := range tracks {
		line := ChartLine{Name: tracks[i].Name}
		for j := range tracks[i].EquityCurve {
			line.LinePlots = append(line.LinePlots, LinePlot{
				Value:     tracks[i].EquityCurve[j].Equity.InexactFloat64(),
				UnixMilli: tracks[i].EquityCurve[j].Date.UnixMilli(),
			})
		}
		response.Data = append(response.Data, line)
	}
	response.scale(chartWidth, chartHeight)
	return response, nil
}

// createDrawdownChart plots how far below its running peak each track's
// equity sits, as a percentage
func createDrawdownChart(tracks []*engine.Track) (*Chart, error) {
	if tracks == nil {
		return nil, fmt.Errorf("%w missing tracks", qbtcommon.ErrNilPointer)
	}
	response := &Chart{
		Name:     "Drawdown %",
		AxisType: "linear",
	}
	for i := range tracks {
		line := ChartLine{Name: tracks[i].Name}
		peak := math.Inf(-1)
		for j := range tracks[i].EquityCurve {
			eq := tracks[i].EquityCurve[j].Equity.InexactFloat64()
			peak = math.Max(peak, eq)
			var dd float64
			if peak > 0 {
				dd = (eq - peak) / peak * 100
			}
			line.LinePlots = append(line.LinePlots, LinePlot{
				Value:     dd,
				UnixMilli: tracks[i].EquityCurve[j].Date.UnixMilli(),
			})
		}
		response.Data = append(response.Data, line)
	}
	response.scale(chartWidth, chartHeight)
	return response, nil
}

// scale converts every line into polyline points sharing the same axes
func (c *Chart) scale(width, height float64) {
	minX, maxX := int64(math.MaxInt64), int64(math.MinInt64)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i := range c.Data {
		for _, p := range c.Data[i].LinePlots {
			minX = min(minX, p.UnixMilli)
			maxX = max(maxX, p.UnixMilli)
			minY = math.Min(minY, p.Value)
			maxY = math.Max(maxY, p.Value)
		}
	}
	spanX := float64(maxX - minX)
	spanY := maxY - minY
	for i := range c.Data {
		c.Data[i].Colour = lineColours[i%len(lineColours)]
		points := make([]string, len(c.Data[i].LinePlots))
		for j, p := range c.Data[i].LinePlots {
			x, y := 0.0, height/2
			if spanX > 0 {
				x = float64(p.UnixMilli-minX) / spanX * width
			}
			if spanY > 0 {
				y = height - (p.Value-minY)/spanY*height
			}
			points[j] = strconv.FormatFloat(x, 'f', 1, 64) + "," + strconv.FormatFloat(y, 'f', 1, 64)
		}
		c.Data[i].Points = strings.Join(points, " ")
	}
}
