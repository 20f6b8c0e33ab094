// Package export writes run artifacts: the energy figure (PNG or SVG, drawn
// with gonum/plot) and the sampled series as CSV or JSON.
package export
