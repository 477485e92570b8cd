package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/shandysiswandi/soilviz/internal/soil/entity"
)

const (
	pngWidth  = 640
	pngHeight = 480
	cellPad   = 40
)

//nolint:gochecknoglobals // color scale shared by both heat map renderers
var heatScale = []string{"#313695", "#74add1", "#ffffbf", "#f46d43", "#a50026"}

// PiePNG writes the frequency pie chart as a PNG image.
func PiePNG(w io.Writer, set entity.ChartSet) error {
	if len(set.Frequency) == 0 {
		return fmt.Errorf("%w: empty frequency distribution", ErrNoData)
	}

	values := make([]chart.Value, len(set.Frequency))
	for i, c := range set.Frequency {
		values[i] = chart.Value{Value: float64(c.Count), Label: c.Value}
	}

	pie := chart.PieChart{
		Title:  set.CategoryColumn,
		Width:  pngWidth,
		Height: pngHeight,
		Values: values,
	}

	return pie.Render(chart.PNG, w)
}

// HeatMapPNG draws the heat map matrix cell by cell with value labels.
func HeatMapPNG(w io.Writer, set entity.ChartSet) error {
	n := len(set.HeatMap)
	if n == 0 {
		return fmt.Errorf("%w: empty heat map", ErrNoData)
	}

	r, err := chart.PNG(pngWidth, pngHeight)
	if err != nil {
		return err
	}

	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}
	r.SetFont(font)
	r.SetFontSize(12)

	lo, hi := set.HeatMap[0][0], set.HeatMap[0][0]
	cols := 0
	for _, row := range set.HeatMap {
		cols = max(cols, len(row))
		for _, v := range row {
			lo, hi = min(lo, v), max(hi, v)
		}
	}

	cw := (pngWidth - 2*cellPad) / max(cols, 1)
	ch := (pngHeight - 2*cellPad) / n

	for y, row := range set.HeatMap {
		for x, v := range row {
			x0, y0 := cellPad+x*cw, cellPad+y*ch
			r.SetFillColor(scaleColor(lo, hi, v))
			r.SetStrokeColor(drawing.ColorWhite)
			r.SetStrokeWidth(1)
			r.MoveTo(x0, y0)
			r.LineTo(x0+cw, y0)
			r.LineTo(x0+cw, y0+ch)
			r.LineTo(x0, y0+ch)
			r.Close()
			r.FillStroke()

			label := strconv.FormatFloat(v, 'f', -1, 64)
			box := r.MeasureText(label)
			r.SetFontColor(drawing.ColorBlack)
			r.Text(label, x0+(cw-box.Width())/2, y0+(ch+box.Height())/2)
		}
	}

	return r.Save(w)
}

// scaleColor interpolates v across heatScale.
func scaleColor(lo, hi, v float64) drawing.Color {
	stops := make([]drawing.Color, len(heatScale))
	for i, h := range heatScale {
		stops[i] = drawing.ColorFromHex(h[1:])
	}
	if hi <= lo {
		return stops[0]
	}

	t := (v - lo) / (hi - lo) * float64(len(stops)-1)
	i := min(int(t), len(stops)-2)
	f := t - float64(i)
	a, b := stops[i], stops[i+1]

	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*f)
	}
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}
