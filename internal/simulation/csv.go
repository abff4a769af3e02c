package simulation

import (
	"encoding/csv"
	"io"
	"strconv"
)

// LedgerHeader is the column order WriteLedgerCSV emits. Keep it stable;
// downstream notebooks key on these names.
var LedgerHeader = []string{
	"epoch",
	"tvb",
	"tvl",
	"tvr",
	"mf",
	"bf",
	"r",
	"f_unclaimed",
	"f_claimed",
	"r_pool",
	"mint_volume",
	"burn_volume",
	"gross_fees",
	"rebate_collected",
	"rebate_paid",
	"net_fees",
	"claim",
}

// WriteLedgerCSV writes a header and one row per computed epoch.
func WriteLedgerCSV(w io.Writer, ledger []LedgerRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(LedgerHeader); err != nil {
		return err
	}

	for _, r := range ledger {
		row := make([]string, 0, len(LedgerHeader))
		row = append(row, strconv.Itoa(r.Epoch))
		for _, f := range r.State.Fields() {
			row = append(row, fmtFloat(f.Value))
		}
		for _, f := range r.Flows.Fields() {
			row = append(row, fmtFloat(f.Value))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
