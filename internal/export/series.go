package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/freefall/internal/dynamo"
)

var csvHeader = []string{"t", "y", "v", "ec", "ep", "em"}

func WriteCSV(w io.Writer, series *dynamo.Series) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range series.Samples {
		row := []string{
			strconv.FormatFloat(s.T, 'f', 6, 64),
			strconv.FormatFloat(s.Y, 'f', 6, 64),
			strconv.FormatFloat(s.V, 'f', 6, 64),
			strconv.FormatFloat(s.Kinetic, 'f', 6, 64),
			strconv.FormatFloat(s.Potential, 'f', 6, 64),
			strconv.FormatFloat(s.Mechanical, 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportData is the JSON document for one run.
type ExportData struct {
	Scenario    dynamo.Scenario    `json:"scenario"`
	Gravity     float64            `json:"gravity"`
	ImpactTime  float64            `json:"impact_time"`
	Diagnostics dynamo.Diagnostics `json:"diagnostics"`
	Samples     []dynamo.Sample    `json:"samples"`
}

func WriteJSON(w io.Writer, series *dynamo.Series, diag dynamo.Diagnostics) error {
	data := ExportData{
		Scenario:    series.Scenario,
		Gravity:     dynamo.Gravity,
		ImpactTime:  series.ImpactTime,
		Diagnostics: diag,
		Samples:     series.Samples,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
