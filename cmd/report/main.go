package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"chatledger/internal/labels"
	"chatledger/internal/matching"
	"chatledger/internal/types"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// stateFile mirrors the annotation UI's exported state: labels keyed by the
// string message index.
type stateFile struct {
	LabeledMessages map[string]labels.Label `json:"labeled_messages"`
}

func main() {
	statePath := flag.String("state", "data/state.json", "exported annotation state file")
	sizingFlag := flag.String("sizing", "1", "fraction of capital risked per trade")
	holdDays := flag.Int("hold-days", matching.DefaultHoldDays, "horizon for force-closing abandoned positions")
	policy := flag.String("policy", string(types.MatchPolicyExclusive), "entry match policy: exclusive or reuse")
	flag.Parse()

	sizing, err := decimal.NewFromString(*sizingFlag)
	if err != nil {
		log.Fatalf("invalid sizing %q: %v", *sizingFlag, err)
	}

	raw, err := os.ReadFile(*statePath)
	if err != nil {
		log.Fatal(err)
	}
	var state stateFile
	if err := json.Unmarshal(raw, &state); err != nil {
		log.Fatal(err)
	}

	lbls := make([]labels.Label, 0, len(state.LabeledMessages))
	for key, l := range state.LabeledMessages {
		idx, err := strconv.Atoi(key)
		if err != nil {
			log.Fatalf("bad label key %q: %v", key, err)
		}
		l.Index = idx
		lbls = append(lbls, l)
	}
	sort.Slice(lbls, func(i, j int) bool { return lbls[i].Index < lbls[j].Index })

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	engine := matching.NewEngine(types.MatchPolicy(*policy), *holdDays, logger)
	orders := matching.FromLabels(lbls, logger)
	trades := engine.Compose(orders)
	trades, abandoned := engine.ResolveAbandoned(orders, trades)
	rows, failed := engine.ComputeProfits(trades, sizing)

	wins, losses := 0, 0
	for _, t := range trades {
		switch t.Profit().Sign() {
		case 1:
			wins++
		case -1:
			losses++
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CLOSE\tOPENED\tCLOSED\tTICKER\tENTRY\tEXIT\tPROFIT\tFACTOR\tGLOBAL\tBALANCE\tDAYS")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			r.Index,
			r.OpenedAt.Format(matching.DateLayout),
			r.ClosedAt.Format(matching.DateLayout),
			r.Ticker,
			r.Entry.StringFixed(2),
			r.Close.StringFixed(2),
			r.Profit.StringFixed(2),
			r.Factor.StringFixed(4),
			r.GlobalFactor.StringFixed(4),
			r.Balance.StringFixed(4),
			r.DurationDays)
	}
	w.Flush()

	fmt.Printf("\ntrades %d  wins %d  losses %d  abandoned %d  failed %d\n",
		len(trades), wins, losses, abandoned, failed)
	if len(rows) > 0 {
		last := rows[len(rows)-1]
		fmt.Printf("final balance %s  compounded factor %s\n",
			last.Balance.StringFixed(4), last.GlobalFactor.StringFixed(4))
	}
}
