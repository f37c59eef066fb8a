package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/livefire2015/ez-rental/src/models"
	"github.com/livefire2015/ez-rental/src/services"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func searchCmd(a *app) *cobra.Command {
	var (
		city, district, roomType string
		minPrice, maxPrice       string
		minArea, maxArea         float64
		filter                   models.RoomFilter
		sortBy, order            string
		page, pageSize           int
	)

	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Search approved rooms",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := strings.Join(args, " ")
			flags := cmd.Flags()

			if flags.Changed("city") {
				filter.City = &city
			}
			if flags.Changed("district") {
				filter.District = &district
			}
			if flags.Changed("type") {
				rt := models.RoomType(roomType)
				if !rt.Valid() {
					return models.NewValidationError("filter", "room_type", "must be one of [single shared apartment studio]")
				}
				filter.RoomType = &rt
			}
			var err error
			if filter.MinPrice, err = optionalDecimal(flags.Changed("min-price"), "min-price", minPrice); err != nil {
				return err
			}
			if filter.MaxPrice, err = optionalDecimal(flags.Changed("max-price"), "max-price", maxPrice); err != nil {
				return err
			}
			if flags.Changed("min-area") {
				filter.MinArea = &minArea
			}
			if flags.Changed("max-area") {
				filter.MaxArea = &maxArea
			}

			var spec *models.SortSpec
			if sortBy != "" {
				spec = &models.SortSpec{By: models.SortKey(sortBy), Order: models.SortOrder(order)}
			}

			rooms, err := a.search.Search(cmd.Context(), keyword, filter, spec)
			if err != nil {
				return err
			}
			result := services.Paginate(rooms, page, pageSize)
			printRooms(cmd.OutOrStdout(), result.Rooms)
			fmt.Fprintf(cmd.OutOrStdout(), "\npage %d/%d, %d rooms\n", result.Page, result.TotalPages, result.Total)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&city, "city", "", "exact city")
	f.StringVar(&district, "district", "", "exact district")
	f.StringVar(&roomType, "type", "", "room type: single, shared, apartment, studio")
	f.StringVar(&minPrice, "min-price", "", "minimum monthly rent")
	f.StringVar(&maxPrice, "max-price", "", "maximum monthly rent")
	f.Float64Var(&minArea, "min-area", 0, "minimum area in m²")
	f.Float64Var(&maxArea, "max-area", 0, "maximum area in m²")
	f.BoolVar(&filter.InternetIncluded, "internet", false, "internet included")
	f.BoolVar(&filter.ParkingIncluded, "parking", false, "parking included")
	f.BoolVar(&filter.AirConditioned, "ac", false, "air conditioned")
	f.BoolVar(&filter.Furnished, "furnished", false, "furnished")
	f.BoolVar(&filter.IncludeUnavailable, "include-unavailable", false, "also list rooms marked unavailable")
	f.StringVar(&sortBy, "sort", "", "sort by: price, area, createdAt")
	f.StringVar(&order, "order", "asc", "sort order: asc, desc")
	f.IntVar(&page, "page", services.DefaultPage, "page number")
	f.IntVar(&pageSize, "page-size", services.DefaultPageSize, "rooms per page")
	return cmd
}

func roomCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "room <id>",
		Short: "Show a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUUID("room id", args[0])
			if err != nil {
				return err
			}
			room, err := a.search.GetRoom(cmd.Context(), id)
			if err != nil {
				return err
			}
			printRoom(cmd.OutOrStdout(), room)
			return nil
		},
	}
}

func printRooms(w io.Writer, rooms []models.Room) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDISTRICT\tCITY\tTYPE\tPRICE\tAREA")
	for i := range rooms {
		r := &rooms[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%.1f\n",
			r.ID, r.Title, r.District, r.City, r.RoomType, r.Price.String(), r.Area)
	}
	tw.Flush()
}

func printRoom(w io.Writer, r *models.Room) {
	fmt.Fprintf(w, "%s\n%s\n\n", r.Title, r.Description)
	fmt.Fprintf(w, "Address:    %s, %s, %s\n", r.Address, r.District, r.City)
	fmt.Fprintf(w, "Type:       %s, %.1f m², up to %d people\n", r.RoomType, r.Area, r.MaxOccupants)
	fmt.Fprintf(w, "Rent:       %s\n", r.Price.String())
	if r.ElectricityPrice != nil {
		fmt.Fprintf(w, "Electric:   %s / kWh\n", r.ElectricityPrice.String())
	}
	if r.WaterPrice != nil {
		fmt.Fprintf(w, "Water:      %s / m³\n", r.WaterPrice.String())
	}
	if r.HostelName != "" {
		fmt.Fprintf(w, "Hostel:     %s\n", r.HostelName)
	}
	if len(r.Amenities) > 0 {
		fmt.Fprintf(w, "Amenities:  %s\n", strings.Join(r.Amenities, ", "))
	}
	fmt.Fprintf(w, "Available:  %t\n", r.IsAvailable)
	fmt.Fprintf(w, "Status:     %s", r.ApprovalStatus)
	if r.RejectionReason != "" {
		fmt.Fprintf(w, " (%s)", r.RejectionReason)
	}
	if r.Archived {
		fmt.Fprint(w, ", archived")
	}
	fmt.Fprintln(w)
}

func parseUUID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	return id, nil
}

func optionalDecimal(set bool, name, value string) (*decimal.Decimal, error) {
	if !set {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: %w", name, value, err)
	}
	return &d, nil
}

// parseDecimal reads an amount flag; empty means zero
func parseDecimal(name, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, value, err)
	}
	return d, nil
}
