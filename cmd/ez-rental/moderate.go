package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func moderateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moderate",
		Short: "Review and withdraw room listings",
	}

	pending := &cobra.Command{
		Use:   "pending",
		Short: "List rooms waiting for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			rooms, err := a.listings.PendingRooms(cmd.Context(), a.session)
			if err != nil {
				return err
			}
			printRooms(cmd.OutOrStdout(), rooms)
			return nil
		},
	}

	approve := &cobra.Command{
		Use:   "approve <room-id>",
		Short: "Publish a pending room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUUID("room id", args[0])
			if err != nil {
				return err
			}
			room, err := a.listings.ApproveRoom(cmd.Context(), a.session, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "approved %q\n", room.Title)
			return nil
		},
	}

	var reason string
	reject := &cobra.Command{
		Use:   "reject <room-id>",
		Short: "Refuse a room with a reason",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUUID("room id", args[0])
			if err != nil {
				return err
			}
			room, err := a.listings.RejectRoom(cmd.Context(), a.session, id, reason)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rejected %q: %s\n", room.Title, room.RejectionReason)
			return nil
		},
	}
	reject.Flags().StringVar(&reason, "reason", "", "reason shown to the landlord")
	_ = reject.MarkFlagRequired("reason")

	archive := &cobra.Command{
		Use:   "archive <room-id>",
		Short: "Withdraw a room from all listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUUID("room id", args[0])
			if err != nil {
				return err
			}
			room, err := a.listings.ArchiveRoom(cmd.Context(), a.session, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "archived %q\n", room.Title)
			return nil
		},
	}

	var terminateReason string
	terminate := &cobra.Command{
		Use:   "terminate-contract <contract-id>",
		Short: "End an active rental contract early",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUUID("contract id", args[0])
			if err != nil {
				return err
			}
			contract, err := a.listings.TerminateContract(cmd.Context(), a.session, id, terminateReason)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "terminated contract %s on %s\n",
				contract.ID, contract.TerminatedAt.Format(dateLayout))
			return nil
		},
	}
	terminate.Flags().StringVar(&terminateReason, "reason", "", "termination reason")

	cmd.AddCommand(pending, approve, reject, archive, terminate)
	return cmd
}
