package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jtallard/biblio/internal/domain"
	"github.com/jtallard/biblio/internal/search"
	"github.com/jtallard/biblio/internal/tui/styles"
)

// View renders the active screen
func (m *Model) View() string {
	var body string
	switch m.view {
	case ViewLogin, ViewRegister, ViewBookForm, ViewBorrowForm,
		ViewCategoryForm, ViewEmailForm:
		if m.activeForm != nil {
			body = m.activeForm.View()
		}
	case ViewBooks:
		body = m.booksView()
	case ViewBookDetail:
		body = m.bookDetailView()
	case ViewBorrows:
		body = m.borrowsView()
	case ViewCategories:
		body = m.categoriesView()
	case ViewUsers:
		body = m.usersView()
	case ViewFines:
		body = m.finesView()
	case ViewDenied:
		body = m.deniedView()
	case ViewError:
		body = m.errorView()
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(m.statusView())
	return b.String()
}

func (m *Model) headerView() string {
	title := styles.TitleStyle.Render("biblio")
	who := styles.DimStyle.Render("not signed in")
	if user := m.session.User(); user != nil {
		who = styles.SubtitleStyle.Render(user.Username) +
			styles.DimStyle.Render(" ("+string(user.Role)+")")
	} else if m.session.Authenticated() {
		who = styles.DimStyle.Render("signed in")
	}
	return title + "  " + who
}

func (m *Model) statusView() string {
	if m.status == "" {
		return m.helpView()
	}
	if m.statusIsErr {
		return styles.ErrorStyle.Render(m.status)
	}
	return styles.SuccessStyle.Render(m.status)
}

func (m *Model) helpView() string {
	switch m.view {
	case ViewBooks:
		return styles.DimStyle.Render("enter detail · / filter · s search · b borrow · n new · e edit · x delete · 1-5 screens · q quit")
	case ViewBorrows:
		return styles.DimStyle.Render("R return · m email · x delete · r refresh · 1-5 screens · q quit")
	case ViewCategories:
		return styles.DimStyle.Render("n new · x delete · 1-5 screens · q quit")
	case ViewUsers:
		return styles.DimStyle.Render("x delete · r refresh · 1-5 screens · q quit")
	case ViewFines:
		return styles.DimStyle.Render("p mark paid · d check due · r refresh · 1-5 screens · q quit")
	case ViewLogin:
		return styles.DimStyle.Render("enter sign in · ctrl+r register · ctrl+c quit")
	}
	return ""
}

// visibleBooks applies the live filter to the loaded catalog. With no
// filter active the store's order is preserved.
func (m *Model) visibleBooks() []domain.Book {
	snap := m.books.Snapshot()
	query := m.filter.Value()
	if query == "" {
		return snap.Items
	}
	results := search.FilterBooks(query, snap.Items)
	books := make([]domain.Book, len(results))
	for i, r := range results {
		books[i] = r.Book
	}
	return books
}

func statusDot(s domain.BookStatus) string {
	switch s {
	case domain.StatusAvailable:
		return styles.AvailableDot
	case domain.StatusBorrowed:
		return styles.BorrowedDot
	case domain.StatusReserved:
		return styles.ReservedDot
	}
	return styles.DimStyle.Render("●")
}

func (m *Model) booksView() string {
	snap := m.books.Snapshot()
	var b strings.Builder

	b.WriteString(styles.SubtitleStyle.Render("Books"))
	if snap.Loading {
		b.WriteString("  " + m.spin.View())
	}
	b.WriteString("\n")

	if m.filtering || m.filter.Value() != "" {
		b.WriteString("/" + m.filter.View() + "\n")
	}
	if m.searching {
		b.WriteString("search: " + m.searchPrompt.View() + "\n")
	}
	b.WriteString("\n")

	if snap.Error != "" {
		b.WriteString(styles.ErrorStyle.Render(snap.Error) + "\n")
		return b.String()
	}

	books := m.visibleBooks()
	if len(books) == 0 {
		if snap.Loading {
			b.WriteString(styles.DimStyle.Render("loading…"))
		} else {
			b.WriteString(styles.DimStyle.Render("no books"))
		}
		return b.String()
	}

	for i, book := range books {
		line := fmt.Sprintf("%s %-40s %-24s %s",
			statusDot(book.Status),
			truncate(book.Title, 40),
			truncate(book.Author, 24),
			styles.DimStyle.Render(m.categories.Name(book.CategoryID)),
		)
		if i == m.cursor {
			b.WriteString(styles.SelectedStyle.Render("▸") + " " + line + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func (m *Model) bookDetailView() string {
	book, loading, errMsg := m.books.Selected()
	if loading {
		return styles.DimStyle.Render("loading… ") + m.spin.View()
	}
	if errMsg != "" {
		return styles.ErrorStyle.Render(errMsg)
	}
	if book == nil {
		return styles.DimStyle.Render("no book selected")
	}

	rows := []string{
		styles.TitleStyle.Render(book.Title),
		styles.SubtitleStyle.Render("by " + book.Author),
		"",
		"Category  " + m.categories.Name(book.CategoryID),
		"ISBN      " + book.ISBN,
		"Status    " + statusDot(book.Status) + " " + string(book.Status),
	}
	if book.Description != "" {
		rows = append(rows, "", book.Description)
	}
	rows = append(rows, "", styles.DimStyle.Render("esc back"))
	return styles.PanelBorder.Render(strings.Join(rows, "\n"))
}

func (m *Model) borrowsView() string {
	snap := m.borrows.Snapshot()
	var b strings.Builder

	b.WriteString(styles.SubtitleStyle.Render("Borrow records"))
	if snap.Loading {
		b.WriteString("  " + m.spin.View())
	}
	b.WriteString("\n\n")

	if snap.Error != "" {
		b.WriteString(styles.ErrorStyle.Render(snap.Error) + "\n")
		return b.String()
	}
	if len(snap.Items) == 0 {
		b.WriteString(styles.DimStyle.Render("no borrow records"))
		return b.String()
	}

	now := time.Now()
	for i, rec := range snap.Items {
		b.WriteString(m.borrowLine(rec, i == m.cursor, now))
	}
	return b.String()
}

func (m *Model) borrowLine(rec domain.BorrowRecord, selected bool, now time.Time) string {
	state := ""
	if rec.ReturnDate != nil {
		state = styles.SuccessStyle.Render("returned " + rec.ReturnDate.Format("2006-01-02"))
	}
	if rec.Active() {
		state = styles.DimStyle.Render("due " + rec.DueDate.Format("2006-01-02"))
		if rec.Overdue(now) {
			state = styles.OverdueMark + styles.ErrorStyle.Render(" overdue since "+rec.DueDate.Format("2006-01-02"))
		}
	}

	who := ""
	if rec.UserInfo != nil {
		who = styles.DimStyle.Render(rec.UserInfo.Username + "  ")
	}

	line := fmt.Sprintf("%-40s %s%s", truncate(rec.Book.Title, 40), who, state)
	if rec.FineAmount > 0 {
		line += "  " + styles.WarnStyle.Render("fine "+rec.FormattedFine())
	}

	if selected {
		return styles.SelectedStyle.Render("▸") + " " + line + "\n"
	}
	return "  " + line + "\n"
}

func (m *Model) categoriesView() string {
	snap := m.categories.Snapshot()
	var b strings.Builder

	b.WriteString(styles.SubtitleStyle.Render("Categories"))
	if snap.Loading {
		b.WriteString("  " + m.spin.View())
	}
	b.WriteString("\n\n")

	if snap.Error != "" {
		b.WriteString(styles.ErrorStyle.Render(snap.Error) + "\n")
		return b.String()
	}
	if len(snap.Items) == 0 {
		b.WriteString(styles.DimStyle.Render("no categories"))
		return b.String()
	}

	for i, cat := range snap.Items {
		line := fmt.Sprintf("%-24s %s", truncate(cat.Name, 24), styles.DimStyle.Render(cat.Description))
		if i == m.cursor {
			b.WriteString(styles.SelectedStyle.Render("▸") + " " + line + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func (m *Model) usersView() string {
	snap := m.users.Snapshot()
	var b strings.Builder

	b.WriteString(styles.SubtitleStyle.Render("Users"))
	if snap.Loading {
		b.WriteString("  " + m.spin.View())
	}
	b.WriteString("\n\n")

	if snap.Error != "" {
		b.WriteString(styles.ErrorStyle.Render(snap.Error) + "\n")
		return b.String()
	}
	if len(snap.Items) == 0 {
		b.WriteString(styles.DimStyle.Render("no users"))
		return b.String()
	}

	for i, user := range snap.Items {
		line := fmt.Sprintf("%-20s %-30s %s",
			truncate(user.Username, 20),
			truncate(user.Email, 30),
			styles.AccentStyle.Render(string(user.Role)),
		)
		if i == m.cursor {
			b.WriteString(styles.SelectedStyle.Render("▸") + " " + line + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func (m *Model) finesView() string {
	snap := m.borrows.Snapshot()
	var b strings.Builder

	b.WriteString(styles.SubtitleStyle.Render("Unpaid fines"))
	if snap.Loading {
		b.WriteString("  " + m.spin.View())
	}
	b.WriteString("\n\n")

	if snap.Error != "" {
		b.WriteString(styles.ErrorStyle.Render(snap.Error) + "\n")
		return b.String()
	}
	if len(snap.Items) == 0 {
		b.WriteString(styles.DimStyle.Render("no unpaid fines"))
		return b.String()
	}

	for i, rec := range snap.Items {
		who := "-"
		if rec.UserInfo != nil {
			who = rec.UserInfo.Username
		}
		line := fmt.Sprintf("%-40s %-20s %s",
			truncate(rec.Book.Title, 40),
			truncate(who, 20),
			styles.WarnStyle.Render(rec.FormattedFine()),
		)
		if i == m.cursor {
			b.WriteString(styles.SelectedStyle.Render("▸") + " " + line + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func (m *Model) deniedView() string {
	body := styles.ErrorStyle.Render("Access denied") + "\n\n" +
		m.deniedReason + "\n\n" +
		styles.DimStyle.Render("enter/esc back")
	return styles.DeniedPanel.Render(body)
}

func (m *Model) errorView() string {
	heading := "Something went wrong"
	if m.errStatus == 0 {
		heading = "Server unreachable"
	}
	body := styles.ErrorStyle.Render(heading)
	if m.errStatus != 0 {
		body += styles.DimStyle.Render(fmt.Sprintf("  (HTTP %d)", m.errStatus))
	}
	body += "\n\n" + m.errMessage + "\n\n" +
		styles.DimStyle.Render("enter/esc back")
	return styles.PanelBorder.Render(body)
}

func truncate(s string, max int) string {
	if lipgloss.Width(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
