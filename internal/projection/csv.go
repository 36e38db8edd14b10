package projection

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

// WriteCashFlowCSV writes the schedule to path.
func WriteCashFlowCSV(path string, s CashFlowSchedule) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeCashFlowCSV(f, s)
}

// EncodeCashFlowCSV writes the schedule as CSV, one row per month.
func EncodeCashFlowCSV(out io.Writer, s CashFlowSchedule) error {
	w := csv.NewWriter(out)

	header := []string{
		"position",
		"month",
		"revenue",
		"depreciation",
		"maintenance",
		"levy_charge",
		"net",
		"cumulative",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, m := range s.Months {
		row := []string{
			strconv.Itoa(m.Position),
			m.Label,
			fmtFloat(m.Revenue),
			fmtFloat(m.Depreciation),
			fmtFloat(m.Maintenance),
			fmtFloat(m.LevyCharge),
			fmtFloat(m.Net),
			fmtFloat(m.Cumulative),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
