// Package svgwrite is a minimal, allocation-light SVG document writer.
// It turns []svgmodel.SvgPath into an SVG document string with
// configurable coordinate precision. It is deliberately not a general
// SVG library: no parsing, no style cascade, no text/label support —
// just enough markup to round-trip this module's own output primitives.
package svgwrite

import (
	"fmt"
	"strings"

	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

// DefaultPrecision is the number of decimal places emitted for every
// coordinate, matching the original source's "%.3f"-style formatting.
const DefaultPrecision = 3

// Options controls document-level formatting.
type Options struct {
	Width, Height int
	Precision     int // decimal places per coordinate; 0 means DefaultPrecision
}

// Write serializes paths into a complete SVG document string.
func Write(paths []svgmodel.SvgPath, opts Options) string {
	precision := opts.Precision
	if precision <= 0 {
		precision = DefaultPrecision
	}

	var defs strings.Builder
	var body strings.Builder
	gradientID := 0

	for _, p := range paths {
		fillAttr := p.Fill
		if p.Gradient != nil {
			id := fmt.Sprintf("g%d", gradientID)
			gradientID++
			writeGradientDef(&defs, id, *p.Gradient, precision)
			fillAttr = fmt.Sprintf("url(#%s)", id)
		}
		writeElement(&body, p, fillAttr, precision)
	}

	var out strings.Builder
	fmt.Fprintf(&out, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		opts.Width, opts.Height, opts.Width, opts.Height)
	if defs.Len() > 0 {
		out.WriteString("<defs>")
		out.WriteString(defs.String())
		out.WriteString("</defs>")
	}
	out.WriteString(body.String())
	out.WriteString("</svg>\n")
	return out.String()
}

func writeGradientDef(w *strings.Builder, id string, g svgmodel.LinearGradient, precision int) {
	f := fmt.Sprintf("%%.%df", precision)
	spec := `<linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="` + f + `" y1="` + f + `" x2="` + f + `" y2="` + f + `">`
	fmt.Fprintf(w, spec, id, g.X1, g.Y1, g.X2, g.Y2)
	fmt.Fprintf(w, `<stop offset="0%%" stop-color="%s"/>`, g.StopColor0)
	fmt.Fprintf(w, `<stop offset="100%%" stop-color="%s"/>`, g.StopColor1)
	w.WriteString("</linearGradient>")
}

func writeElement(w *strings.Builder, p svgmodel.SvgPath, fillAttr string, precision int) {
	switch p.Kind {
	case svgmodel.ElementCircle:
		f := fmt.Sprintf("%%.%df", precision)
		spec := `<circle cx="` + f + `" cy="` + f + `" r="` + f + `" `
		fmt.Fprintf(w, spec, p.CX, p.CY, p.RX)
		writeStyle(w, p, fillAttr)
		w.WriteString("/>")
	case svgmodel.ElementEllipse:
		f := fmt.Sprintf("%%.%df", precision)
		spec := `<ellipse cx="` + f + `" cy="` + f + `" rx="` + f + `" ry="` + f + `" `
		fmt.Fprintf(w, spec, p.CX, p.CY, p.RX, p.RY)
		writeStyle(w, p, fillAttr)
		w.WriteString("/>")
	default:
		d := pathData(p, precision)
		if d == "" {
			return
		}
		fmt.Fprintf(w, `<path d="%s" `, d)
		writeStyle(w, p, fillAttr)
		w.WriteString("/>")
	}
}

func writeStyle(w *strings.Builder, p svgmodel.SvgPath, fillAttr string) {
	fill := fillAttr
	if fill == "" {
		fill = "none"
	}
	stroke := p.Stroke
	if stroke == "" {
		stroke = "none"
	}
	fmt.Fprintf(w, `fill="%s" stroke="%s" stroke-width="%g" opacity="%g"`, fill, stroke, p.StrokeWidth, p.Opacity)
}

// pathData builds an SVG path "d" attribute from beziers (preferred)
// or a raw polyline, matching internal/raster's own dispatch rule.
func pathData(p svgmodel.SvgPath, precision int) string {
	f := fmt.Sprintf("%%.%df", precision)
	var b strings.Builder

	if len(p.Beziers) > 0 {
		start := p.Beziers[0].P0
		fmt.Fprintf(&b, "M "+f+" "+f, start.X, start.Y)
		for _, seg := range p.Beziers {
			fmt.Fprintf(&b, " C "+f+" "+f+", "+f+" "+f+", "+f+" "+f,
				seg.P1.X, seg.P1.Y, seg.P2.X, seg.P2.Y, seg.P3.X, seg.P3.Y)
		}
		return b.String()
	}

	if len(p.Polyline) == 0 {
		return ""
	}
	fmt.Fprintf(&b, "M "+f+" "+f, p.Polyline[0].X, p.Polyline[0].Y)
	for _, pt := range p.Polyline[1:] {
		fmt.Fprintf(&b, " L "+f+" "+f, pt.X, pt.Y)
	}
	if p.Polyline.Closed() {
		b.WriteString(" Z")
	}
	return b.String()
}
