package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/livefire2015/ez-rental/src/models"
	"github.com/livefire2015/ez-rental/src/services"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

type periodFlags struct {
	month, year         int
	due                 string
	elecRate, waterRate string
}

func (p *periodFlags) register(cmd *cobra.Command) {
	now := time.Now()
	f := cmd.Flags()
	f.IntVar(&p.month, "month", int(now.Month()), "billing month (1-12)")
	f.IntVar(&p.year, "year", now.Year(), "billing year")
	f.StringVar(&p.due, "due", "", "due date (YYYY-MM-DD), defaults to the 5th of the next month")
	f.StringVar(&p.elecRate, "electricity-rate", "", "electricity price per kWh for this period")
	f.StringVar(&p.waterRate, "water-rate", "", "water price per m³ for this period")
}

func (p *periodFlags) dueDate() (time.Time, error) {
	if p.due == "" {
		return time.Date(p.year, time.Month(p.month)+1, 5, 0, 0, 0, 0, time.Local), nil
	}
	d, err := time.ParseInLocation(dateLayout, p.due, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --due %q: %w", p.due, err)
	}
	return d, nil
}

func (p *periodFlags) rates(cmd *cobra.Command) (*services.RateOverride, error) {
	elec, err := optionalDecimal(cmd.Flags().Changed("electricity-rate"), "electricity-rate", p.elecRate)
	if err != nil {
		return nil, err
	}
	water, err := optionalDecimal(cmd.Flags().Changed("water-rate"), "water-rate", p.waterRate)
	if err != nil {
		return nil, err
	}
	if elec == nil && water == nil {
		return nil, nil
	}
	return &services.RateOverride{ElectricityRate: elec, WaterRate: water}, nil
}

func billCmd(a *app) *cobra.Command {
	var (
		period                       periodFlags
		tenant                       string
		electricity, water           string
		serviceFees, otherFees, note string
	)

	cmd := &cobra.Command{
		Use:   "bill <room-id>",
		Short: "Issue one room's bill for a period using its tariffs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID, err := parseUUID("room id", args[0])
			if err != nil {
				return err
			}
			req := services.BillRequest{Month: period.month, Year: period.year, Note: note}
			if tenant != "" {
				if req.TenantID, err = parseUUID("tenant id", tenant); err != nil {
					return err
				}
			}
			if req.DueDate, err = period.dueDate(); err != nil {
				return err
			}
			if req.Rates, err = period.rates(cmd); err != nil {
				return err
			}
			if req.Reading, err = readingFromFlags(electricity, water, serviceFees, otherFees); err != nil {
				return err
			}

			bill, err := a.billing.IssueBill(cmd.Context(), a.session, roomID, req)
			if err != nil {
				return err
			}
			printBill(cmd.OutOrStdout(), bill, time.Now())
			return nil
		},
	}

	period.register(cmd)
	f := cmd.Flags()
	f.StringVar(&tenant, "tenant", "", "tenant id, defaults to the tenant linked to the room")
	f.StringVar(&electricity, "electricity", "0", "electricity used in kWh")
	f.StringVar(&water, "water", "0", "water used in m³")
	f.StringVar(&serviceFees, "service-fees", "0", "service fees")
	f.StringVar(&otherFees, "other-fees", "0", "other fees")
	f.StringVar(&note, "note", "", "note printed on the bill")
	return cmd
}

func batchBillCmd(a *app) *cobra.Command {
	var (
		period          periodFlags
		entries         []string
		includeServices bool
	)

	cmd := &cobra.Command{
		Use:   "batch-bill",
		Short: "Issue bills for many rooms from meter readings, all or nothing",
		Example: "  ez-rental batch-bill --month 9 --year 2024 --electricity-rate 3800 \\\n" +
			"    --entry aaaaaaaa-0000-4000-8000-000000000001:150:12:200000",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := services.BatchRequest{
				Month:                  period.month,
				Year:                   period.year,
				IncludeServiceBookings: includeServices,
			}
			var err error
			if req.DueDate, err = period.dueDate(); err != nil {
				return err
			}
			if req.Rates, err = period.rates(cmd); err != nil {
				return err
			}
			for _, raw := range entries {
				entry, err := parseBatchEntry(raw)
				if err != nil {
					return err
				}
				req.Entries = append(req.Entries, entry)
			}

			bills, err := a.billing.IssueBatch(cmd.Context(), a.session, req)
			if err != nil {
				return err
			}
			out := make([]models.Bill, len(bills))
			for i, b := range bills {
				out[i] = *b
			}
			printBills(cmd.OutOrStdout(), out, time.Now())
			return nil
		},
	}

	period.register(cmd)
	f := cmd.Flags()
	f.StringArrayVar(&entries, "entry", nil, "room-id:electricity:water[:other-fees], repeatable")
	f.BoolVar(&includeServices, "include-services", false, "add completed service bookings of the period")
	return cmd
}

func parseBatchEntry(raw string) (services.BatchEntry, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return services.BatchEntry{}, fmt.Errorf("invalid --entry %q: want room-id:electricity:water[:other-fees]", raw)
	}
	roomID, err := parseUUID("room id", parts[0])
	if err != nil {
		return services.BatchEntry{}, err
	}
	other := ""
	if len(parts) == 4 {
		other = parts[3]
	}
	reading, err := readingFromFlags(parts[1], parts[2], "", other)
	if err != nil {
		return services.BatchEntry{}, err
	}
	return services.BatchEntry{RoomID: roomID, Reading: reading}, nil
}

func readingFromFlags(electricity, water, serviceFees, otherFees string) (services.MeterReading, error) {
	var r services.MeterReading
	var err error
	if r.ElectricityUsage, err = parseDecimal("electricity", electricity); err != nil {
		return r, err
	}
	if r.WaterUsage, err = parseDecimal("water", water); err != nil {
		return r, err
	}
	if r.ServiceFees, err = parseDecimal("service-fees", serviceFees); err != nil {
		return r, err
	}
	if r.OtherFees, err = parseDecimal("other-fees", otherFees); err != nil {
		return r, err
	}
	return r, nil
}

func payBillCmd(a *app) *cobra.Command {
	var paidOn string

	cmd := &cobra.Command{
		Use:   "pay-bill <bill-id>",
		Short: "Record the payment of a bill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			billID, err := parseUUID("bill id", args[0])
			if err != nil {
				return err
			}
			paidAt := time.Now()
			if paidOn != "" {
				if paidAt, err = time.ParseInLocation(dateLayout, paidOn, time.Local); err != nil {
					return fmt.Errorf("invalid --paid-on %q: %w", paidOn, err)
				}
			}
			bill, err := a.billing.MarkPaid(cmd.Context(), a.session, billID, paidAt)
			if err != nil {
				return err
			}
			printBill(cmd.OutOrStdout(), bill, time.Now())
			return nil
		},
	}

	cmd.Flags().StringVar(&paidOn, "paid-on", "", "payment date (YYYY-MM-DD), defaults to now")
	return cmd
}

func exportBillsCmd(a *app) *cobra.Command {
	var (
		out     string
		tenant  string
		overdue bool
	)

	cmd := &cobra.Command{
		Use:   "export-bills",
		Short: "Export the bills you can see to an .xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			ctx := cmd.Context()

			var (
				bills []models.Bill
				err   error
			)
			switch {
			case tenant != "":
				var id uuid.UUID
				if id, err = parseUUID("tenant id", tenant); err != nil {
					return err
				}
				bills, err = a.billing.BillsForTenant(ctx, a.session, id, now)
			case overdue:
				bills, err = a.billing.OverdueBills(ctx, a.session, now)
			default:
				bills, err = a.billing.Bills(ctx, a.session, now)
			}
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer f.Close()
			if err := a.exporter.Export(f, bills, now); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d bills to %s\n", len(bills), out)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", "bills.xlsx", "output file")
	f.StringVar(&tenant, "tenant", "", "only this tenant's bills")
	f.BoolVar(&overdue, "overdue", false, "only overdue bills")
	return cmd
}

func printBill(w io.Writer, b *models.Bill, now time.Time) {
	fmt.Fprintf(w, "Bill %s for %s (room %s)\n", b.ID, b.Period(), b.RoomID)
	fmt.Fprintf(w, "  Rent         %14s\n", b.RentAmount.String())
	fmt.Fprintf(w, "  Electricity  %14s  (%s kWh × %s)\n", b.ElectricityCharge().String(), b.ElectricityUsage.String(), b.ElectricityRate.String())
	fmt.Fprintf(w, "  Water        %14s  (%s m³ × %s)\n", b.WaterCharge().String(), b.WaterUsage.String(), b.WaterRate.String())
	fmt.Fprintf(w, "  Services     %14s\n", b.ServiceFees.String())
	fmt.Fprintf(w, "  Other        %14s\n", b.OtherFees.String())
	fmt.Fprintf(w, "  Total        %14s\n", b.TotalAmount().String())
	fmt.Fprintf(w, "  Due %s, %s\n", b.DueDate.Format(dateLayout), b.EffectiveStatus(now))
}

func printBills(w io.Writer, bills []models.Bill, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tROOM\tPERIOD\tTOTAL\tDUE\tSTATUS")
	for i := range bills {
		b := &bills[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.RoomID, b.Period(), b.TotalAmount().String(), b.DueDate.Format(dateLayout), b.EffectiveStatus(now))
	}
	tw.Flush()
}
