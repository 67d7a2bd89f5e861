package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jtallard/biblio/internal/api"
	"github.com/jtallard/biblio/internal/domain"
)

func newBookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Browse and manage the catalog",
	}
	cmd.AddCommand(
		newBookListCmd(),
		newBookShowCmd(),
		newBookAddCmd(),
		newBookRmCmd(),
	)
	return cmd
}

func newBookListCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books, optionally filtered server-side",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}

			ctx, cancel := a.ctx()
			defer cancel()
			books, err := a.client.ListBooks(ctx, search)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tISBN\tSTATUS")
			for _, b := range books {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, b.ISBN, b.Status)
			}
			return w.Flush()
		}),
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "search term sent to the server")
	return cmd
}

func newBookShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("book id must be a number")
			}

			ctx, cancel := a.ctx()
			defer cancel()
			book, err := a.client.GetBook(ctx, id)
			if err != nil {
				return err
			}

			fmt.Printf("%s\nby %s\nISBN %s, status %s\n", book.Title, book.Author, book.ISBN, book.Status)
			if book.Description != "" {
				fmt.Printf("\n%s\n", book.Description)
			}
			return nil
		}),
	}
}

func newBookAddCmd() *cobra.Command {
	var author, isbn, description string
	var categoryID int

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a book to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}

			draft := api.BookDraft{
				Title:       args[0],
				Author:      author,
				CategoryID:  categoryID,
				ISBN:        isbn,
				Status:      domain.StatusAvailable,
				Description: description,
			}

			ctx, cancel := a.ctx()
			defer cancel()
			book, err := a.client.CreateBook(ctx, draft)
			if err != nil {
				return err
			}

			fmt.Printf("Added book %d: %s\n", book.ID, book.Title)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&author, "author", "a", "", "author")
	cmd.Flags().StringVarP(&isbn, "isbn", "i", "", "ISBN")
	cmd.Flags().IntVarP(&categoryID, "category", "c", 0, "category id")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description")
	cmd.MarkFlagRequired("author")
	cmd.MarkFlagRequired("isbn")
	cmd.MarkFlagRequired("category")
	return cmd
}

func newBookRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a book",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("book id must be a number")
			}

			ctx, cancel := a.ctx()
			defer cancel()
			if err := a.client.DeleteBook(ctx, id); err != nil {
				return err
			}

			fmt.Printf("Deleted book %d\n", id)
			return nil
		}),
	}
}

func newBorrowCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "borrow <book-id>",
		Short: "Borrow a book",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			bookID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("book id must be a number")
			}
			if days <= 0 {
				return fmt.Errorf("loan length must be a positive number of days")
			}

			ctx, cancel := a.ctx()
			defer cancel()
			rec, err := a.client.CreateBorrowRecord(ctx, bookID, time.Now().AddDate(0, 0, days))
			if err != nil {
				return err
			}

			fmt.Printf("Borrowed %q, due %s\n", rec.Book.Title, rec.DueDate.Format("2006-01-02"))
			return nil
		}),
	}

	cmd.Flags().IntVarP(&days, "days", "d", 14, "loan length in days")
	return cmd
}

func newReturnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return <record-id>",
		Short: "Return a borrowed book",
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
			msg, err := a.client.ReturnBook(ctx, id)
			if err != nil {
				return err
			}
			fmt.Println(msg)

			// The return endpoint only confirms; refetch for the
			// server-recorded return date and any fine.
			if rec, err := a.client.GetBorrowRecord(ctx, id); err == nil {
				if rec.ReturnDate != nil {
					fmt.Printf("Returned on %s\n", rec.ReturnDate.Format("2006-01-02"))
				}
				if rec.FineAmount > 0 {
					fmt.Printf("Outstanding fine: %s\n", rec.FormattedFine())
				}
			}
			return nil
		}),
	}
}
