package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/payment"
)

// alerts prints the payment alerts of the current month.
func (cli *commandLine) alerts() error {
	svc, err := cli.paymentService()
	if err != nil {
		return err
	}
	alerts, err := svc.ComputeAlerts(context.Background())
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		fmt.Fprintln(cli.out, "no payment due")
		return nil
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STUDENT\tSUBJECT\tLEVEL\tATTENDED\tEXPECTED\tDUE")
	for _, a := range alerts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			a.StudentName, a.SubjectName, a.LevelName, a.AttendanceCount, a.ExpectedAttendance, a.AmountDue.StringFixed(2))
	}
	return w.Flush()
}

func (cli *commandLine) recordPayment(studentID, offeringID, amount, date, month string) error {
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("amount must be a number (got '%s')", amount)
	}
	now := payment.NowFunc()
	paidOn := core.Day(now)
	if date != "" {
		if paidOn, err = core.ParseDate(date); err != nil {
			return fmt.Errorf("date must be formatted as YYYY-MM-DD (got '%s')", date)
		}
	}
	if month == "" {
		month = core.Month(now)
	}

	svc, err := cli.paymentService()
	if err != nil {
		return err
	}
	pmt, err := svc.RecordPayment(context.Background(), payment.NewPayment{
		StudentID:    studentID,
		OfferingID:   offeringID,
		Amount:       amt,
		PaymentDate:  paidOn,
		MonthPaidFor: month,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "payment %s recorded for %s\n", pmt.ID, pmt.MonthPaidFor)
	return nil
}
