package viz

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/freefall/internal/dynamo"
)

const (
	bannerWidth = 50
	title       = "FREE-FALL ENERGY CONSERVATION"
)

// Title prints the program banner. Interactive runs print it once, before
// the prompts.
func Title(w io.Writer, th Theme) error {
	p := newPalette(w, th)
	_, err := fmt.Fprintln(w, p.header.Render(Banner(title, bannerWidth)))
	return err
}

// Report prints the echoed parameters and the conservation analysis of a
// sampled run.
func Report(w io.Writer, series *dynamo.Series, diag dynamo.Diagnostics, th Theme) error {
	p := newPalette(w, th)
	sc := series.Scenario

	var b strings.Builder
	b.WriteString("\nModel parameters:\n")

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\t%s\n", p.label.Render("Initial height:"), p.value.Render(fmt.Sprintf("%g m", sc.Height)))
	fmt.Fprintf(tw, "  %s\t%s\n", p.label.Render("Body mass:"), p.value.Render(fmt.Sprintf("%g kg", sc.Mass)))
	fmt.Fprintf(tw, "  %s\t%s\n", p.label.Render("Gravity:"), p.value.Render(fmt.Sprintf("%g m/s^2", dynamo.Gravity)))
	fmt.Fprintf(tw, "  %s\t%s\n", p.label.Render("Time to impact:"), p.value.Render(fmt.Sprintf("%.3f s", series.ImpactTime)))
	fmt.Fprintf(tw, "  %s\t%s\n", p.label.Render("Samples:"), p.value.Render(fmt.Sprintf("%d", series.Len())))
	if err := tw.Flush(); err != nil {
		return err
	}

	b.WriteString("\n" + p.header.Render(Banner("ENERGY CONSERVATION ANALYSIS", bannerWidth)) + "\n")
	fmt.Fprintf(&b, "Initial mechanical energy (t=0): %.6f J\n", diag.InitialEnergy)
	fmt.Fprintf(&b, "Final mechanical energy (t=%.3fs): %.6f J\n", series.ImpactTime, diag.FinalEnergy)
	fmt.Fprintf(&b, "Relative difference: %.6f %%\n", diag.RelativeDiff)
	fmt.Fprintf(&b, "Largest drift over the series: %.6f %%\n", diag.MaxDrift)
	b.WriteString(verdict(diag, p) + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// verdict is informational only; a detected variation is not an error.
func verdict(diag dynamo.Diagnostics, p palette) string {
	if diag.Conserved {
		return p.success.Render("CONCLUSION: mechanical energy is conserved (within numerical precision).")
	}
	return p.warning.Render(fmt.Sprintf("CONCLUSION: a variation in mechanical energy was detected (tolerance %g %%).", diag.Tolerance))
}

func FigureSaved(w io.Writer, path string, th Theme) error {
	p := newPalette(w, th)
	_, err := fmt.Fprintf(w, "Figure saved as: %s\n", p.value.Render(path))
	return err
}

// Notes prints the closing explanation of the figure.
func Notes(w io.Writer, diag dynamo.Diagnostics, th Theme) error {
	p := newPalette(w, th)
	lines := []string{
		fmt.Sprintf("1. Total initial energy: %.2f J", diag.InitialEnergy),
		"2. It turns from potential into kinetic energy during the fall.",
		"3. Total mechanical energy stays constant (conservation principle).",
		"4. The figure shows:",
		"   - blue line: kinetic energy (grows with time)",
		"   - red line: potential energy (shrinks with time)",
		"   - dashed green line: total mechanical energy (constant)",
		"   - dotted black line: initial mechanical energy",
	}

	body := p.header.Render(Banner("ADDITIONAL INFORMATION", bannerWidth)) + "\n" +
		p.muted.Render(strings.Join(lines, "\n")) + "\n"
	_, err := io.WriteString(w, "\n"+body)
	return err
}
