package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage catalog categories",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := a.ctx()
			defer cancel()
			cats, err := a.client.ListCategories(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
			for _, c := range cats {
				fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.Description)
			}
			return w.Flush()
		}),
	}

	var description string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := a.ctx()
			defer cancel()
			cat, err := a.client.CreateCategory(ctx, args[0], description)
			if err != nil {
				return err
			}
			fmt.Printf("Created category %d: %s\n", cat.ID, cat.Name)
			return nil
		}),
	}
	add.Flags().StringVarP(&description, "description", "d", "", "description")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("category id must be a number")
			}
			ctx, cancel := a.ctx()
			defer cancel()
			if err := a.client.DeleteCategory(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Deleted category %d\n", id)
			return nil
		}),
	}

	cmd.AddCommand(list, add, rm)
	return cmd
}

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts (admin only)",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := a.ctx()
			defer cancel()
			users, err := a.client.ListUsers(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE")
			for _, u := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role)
			}
			return w.Flush()
		}),
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("user id must be a number")
			}
			if current := a.session.User(); current != nil && current.ID == id {
				return fmt.Errorf("refusing to delete the signed-in account")
			}
			ctx, cancel := a.ctx()
			defer cancel()
			if err := a.client.DeleteUser(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Deleted user %d\n", id)
			return nil
		}),
	}

	cmd.AddCommand(list, rm)
	return cmd
}

func newFinesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fines",
		Short: "Unpaid fines (staff only)",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List borrow records with unpaid fines",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := a.ctx()
			defer cancel()
			records, err := a.client.UnpaidFines(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RECORD\tBOOK\tBORROWER\tDUE\tFINE")
			for _, r := range records {
				who := "-"
				if r.UserInfo != nil {
					who = r.UserInfo.Username
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					r.ID, r.Book.Title, who, r.DueDate.Format("2006-01-02"), r.FormattedFine())
			}
			return w.Flush()
		}),
	}

	pay := &cobra.Command{
		Use:   "pay <record-id>",
		Short: "Mark a fine as paid",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("record id must be a number")
			}
			ctx, cancel := a.ctx()
			defer cancel()
			msg, err := a.client.MarkFinePaid(ctx, id)
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		}),
	}

	cmd.AddCommand(list, pay)
	return cmd
}

func newCheckDueCmd() *cobra.Command {
	var overdueOnly bool

	cmd := &cobra.Command{
		Use:   "check-due",
		Short: "Trigger the server's due-date sweep and list open loans",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx, cancel := a.ctx()
			defer cancel()

			msg, err := a.client.CheckDueBooks(ctx)
			if err != nil {
				return err
			}
			fmt.Println(msg)

			records, err := a.client.ListBorrowRecords(ctx)
			if err != nil {
				return err
			}

			now := time.Now()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RECORD\tBOOK\tDUE\tSTATE")
			for _, r := range records {
				if !r.Active() {
					continue
				}
				state := "on loan"
				if r.Overdue(now) {
					state = "OVERDUE"
				} else if overdueOnly {
					continue
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.Book.Title, r.DueDate.Format("2006-01-02"), state)
			}
			return w.Flush()
		}),
	}

	cmd.Flags().BoolVar(&overdueOnly, "overdue", false, "show only overdue loans")
	return cmd
}
