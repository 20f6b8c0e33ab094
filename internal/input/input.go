// Package input reads and validates the height and mass of a run.
//
// Validation is fail-fast: the first rejected value is returned and nothing
// downstream is computed.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/freefall/internal/dynamo"
)

const (
	HeightPrompt = "Initial height h in meters: "
	MassPrompt   = "Mass m in kg (ENTER for 1.0 kg): "
)

func ParseHeight(s string) (float64, error) {
	return parsePositive("height", s)
}

// ParseMass treats a blank answer as dynamo.DefaultMass.
func ParseMass(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return dynamo.DefaultMass, nil
	}
	return parsePositive("mass", s)
}

func parsePositive(field, s string) (float64, error) {
	raw := strings.TrimSpace(s)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &dynamo.InputError{Field: field, Input: raw, Err: dynamo.ErrParse}
	}
	if err := dynamo.CheckPositive(field, v); err != nil {
		return 0, &dynamo.InputError{Field: field, Input: raw, Err: dynamo.ErrRange}
	}
	return v, nil
}

// Prompter asks for a scenario on an interactive stream.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

func (p *Prompter) Scenario() (dynamo.Scenario, error) {
	line, ok := p.ask(HeightPrompt)
	if !ok {
		return dynamo.Scenario{}, &dynamo.InputError{Field: "height", Err: dynamo.ErrParse}
	}
	h, err := ParseHeight(line)
	if err != nil {
		return dynamo.Scenario{}, err
	}

	// EOF here means the optional mass was skipped.
	line, _ = p.ask(MassPrompt)
	m, err := ParseMass(line)
	if err != nil {
		return dynamo.Scenario{}, err
	}

	return dynamo.Scenario{Height: h, Mass: m}, nil
}

func (p *Prompter) ask(prompt string) (string, bool) {
	fmt.Fprint(p.out, prompt)
	if !p.scanner.Scan() {
		return "", false
	}
	return p.scanner.Text(), true
}
