package main

import (
	"fmt"
	"math/big"
	"os"
	"text/tabwriter"

	"vesting-dashboard/core/model"
	"vesting-dashboard/core/vesting"
)

type printer struct {
	symbol string
}

func (p printer) amount(v *big.Int) string {
	s := model.FormatTokenAmount(v, model.DisplayDecimals)
	if p.symbol != "" {
		s += " " + p.symbol
	}
	return s
}

func (p printer) summary(view *model.BeneficiaryView) {
	s := view.Summary
	fmt.Printf("beneficiary: %s\n", view.Beneficiary.Hex())
	fmt.Printf("total:       %s\n", p.amount(s.TotalAmount))
	fmt.Printf("released:    %s\n", p.amount(s.ReleasedAmount))
	fmt.Printf("releasable:  %s\n", p.amount(s.ReleasableAmount))
	fmt.Printf("locked:      %s\n", p.amount(s.LockedAmount))
	fmt.Println()
}

func (p printer) cards(cards []*vesting.Card) {
	if len(cards) == 0 {
		fmt.Println("no vesting schedules")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tCATEGORY\tTYPE\tSTATUS\tRELEASED\tRELEASABLE\tLOCKED\tTIME\tREMAINING\tID")
	for _, c := range cards {
		releasable := p.amount(c.Progress.ReleasableAmount)
		if c.Estimated {
			releasable += " (est.)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s (%.2f%%)\t%s\t%s\t%.2f%%\t%s\t%s\n",
			c.Index, c.Category, c.Type, c.Status,
			p.amount(c.Progress.ReleasedAmount), c.ReleasePercent,
			releasable, p.amount(c.Progress.LockedAmount),
			c.TimePercent, c.Remaining, c.Id.Hex())
	}
	w.Flush()
}

func (p printer) stats(s *model.GlobalStats) {
	fmt.Printf("total:     %s\n", p.amount(s.Total))
	fmt.Printf("released:  %s (%.2f%%)\n", p.amount(s.Released), s.ReleasePercent)
	fmt.Printf("locked:    %s\n", p.amount(s.Locked))
}

func (p printer) progress(v *model.VestingProgress) {
	fmt.Printf("total:      %s\n", p.amount(v.TotalAmount))
	fmt.Printf("released:   %s\n", p.amount(v.ReleasedAmount))
	fmt.Printf("releasable: %s\n", p.amount(v.ReleasableAmount))
	fmt.Printf("locked:     %s\n", p.amount(v.LockedAmount))
}
