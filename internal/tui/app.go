package tui

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jtallard/biblio/internal/api"
	"github.com/jtallard/biblio/internal/domain"
	"github.com/jtallard/biblio/internal/guard"
	"github.com/jtallard/biblio/internal/session"
	"github.com/jtallard/biblio/internal/state"
)

// View identifies the active screen
type View int

const (
	ViewLogin View = iota
	ViewRegister
	ViewBooks
	ViewBookDetail
	ViewBookForm
	ViewBorrows
	ViewBorrowForm
	ViewEmailForm
	ViewCategories
	ViewCategoryForm
	ViewUsers
	ViewFines
	ViewDenied
	ViewError
)

// requirementFor maps each screen to what the route guard demands.
// This is the one place roles gate navigation; views never re-check.
func requirementFor(v View) guard.Requirement {
	switch v {
	case ViewLogin, ViewRegister, ViewError:
		return guard.RequireNone
	case ViewBookForm, ViewCategories, ViewCategoryForm, ViewEmailForm, ViewFines:
		return guard.RequireStaff
	case ViewUsers:
		return guard.RequireAdmin
	default:
		return guard.RequireAuthenticated
	}
}

// Model is the main Bubble Tea model for the application
type Model struct {
	session    *session.Manager
	books      *state.BookStore
	borrows    *state.BorrowStore
	categories *state.CategoryStore
	users      *state.UserStore
	logger     *slog.Logger

	keys KeyMap
	view View
	// where esc returns to from forms, detail and denied panels
	returnView View

	width  int
	height int
	cursor int

	// find-as-you-type filter over the loaded catalog
	filter    textinput.Model
	filtering bool

	// server-side search prompt
	searchPrompt textinput.Model
	searching    bool

	activeForm     *form
	editBookID     int
	targetBookID   int
	targetRecordID int

	status      string
	statusIsErr bool

	deniedReason string
	errStatus    int
	errMessage   string

	spin spinner.Model
}

// NewModel creates the application model
func NewModel(sess *session.Manager, books *state.BookStore, borrows *state.BorrowStore,
	categories *state.CategoryStore, users *state.UserStore, logger *slog.Logger) *Model {

	if logger == nil {
		logger = slog.Default()
	}

	filter := textinput.New()
	filter.Placeholder = "filter title, author, ISBN"
	filter.Width = 40

	prompt := textinput.New()
	prompt.Placeholder = "search the catalog"
	prompt.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		session:      sess,
		books:        books,
		borrows:      borrows,
		categories:   categories,
		users:        users,
		logger:       logger,
		keys:         DefaultKeyMap(),
		filter:       filter,
		searchPrompt: prompt,
		spin:         sp,
		view:         ViewLogin,
		returnView:   ViewBooks,
	}

	if sess.Authenticated() {
		m.view = ViewBooks
	} else {
		m.activeForm = loginForm()
	}
	return m
}

func loginForm() *form {
	return newForm("Sign in",
		formField{key: "username", label: "Username", placeholder: "username"},
		formField{key: "password", label: "Password", placeholder: "password", secret: true},
	)
}

func registerForm() *form {
	return newForm("Create account",
		formField{key: "username", label: "Username", placeholder: "at least 3 characters"},
		formField{key: "email", label: "Email", placeholder: "you@example.org"},
		formField{key: "password", label: "Password", placeholder: "6+ chars, Aa1", secret: true},
		formField{key: "role", label: "Role", placeholder: "member", value: "member"},
	)
}

// Init loads the initial data set
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spin.Tick}
	if m.session.Authenticated() {
		cmds = append(cmds,
			FetchProfileCmd(m.session),
			LoadBooksCmd(m.books),
			LoadCategoriesCmd(m.categories),
		)
	}
	return tea.Batch(cmds...)
}

// navigate consults the route guard and switches views on Allow. The
// guard's RedirectToLogin lands on the login form; Denied renders the
// in-page panel without leaving the previous screen behind it.
func (m *Model) navigate(v View) tea.Cmd {
	decision := guard.Evaluate(m.session.Snapshot(), requirementFor(v))
	switch decision.Outcome {
	case guard.RedirectToLogin:
		m.view = ViewLogin
		m.activeForm = loginForm()
		return nil
	case guard.Denied:
		m.returnView = m.view
		m.view = ViewDenied
		m.deniedReason = decision.Reason
		return nil
	}

	m.view = v
	m.cursor = 0
	m.filtering = false
	m.filter.SetValue("")

	switch v {
	case ViewBooks:
		return tea.Batch(LoadBooksCmd(m.books), LoadCategoriesCmd(m.categories))
	case ViewBorrows:
		return LoadBorrowsCmd(m.borrows)
	case ViewCategories:
		return LoadCategoriesCmd(m.categories)
	case ViewUsers:
		return LoadUsersCmd(m.users)
	case ViewFines:
		return LoadFinesCmd(m.borrows)
	}
	return nil
}

// Update handles all messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ErrMsg:
		return m.handleError(msg)

	case LoggedInMsg:
		m.activeForm = nil
		m.setStatus("Signed in as "+msg.Username, false)
		cmd := m.navigate(ViewBooks)
		return m, tea.Batch(FetchProfileCmd(m.session), cmd, ClearStatusCmd())

	case RegisteredMsg:
		m.view = ViewLogin
		m.activeForm = loginForm()
		m.setStatus("Account created — sign in to continue", false)
		return m, ClearStatusCmd()

	case ProfileLoadedMsg:
		return m, nil

	case BooksLoadedMsg, BorrowsLoadedMsg, CategoriesLoadedMsg,
		UsersLoadedMsg, FinesLoadedMsg, BookDetailLoadedMsg:
		m.clampCursor()
		return m, nil

	case BookSavedMsg:
		m.activeForm = nil
		m.view = ViewBooks
		m.setStatus("Book saved", false)
		return m, ClearStatusCmd()

	case BookDeletedMsg:
		m.clampCursor()
		m.setStatus("Book deleted", false)
		return m, ClearStatusCmd()

	case BorrowCreatedMsg:
		m.activeForm = nil
		cmd := m.navigate(ViewBorrows)
		m.setStatus("Borrow record created", false)
		return m, tea.Batch(cmd, ClearStatusCmd())

	case BookReturnedMsg:
		snap := m.borrows.Snapshot()
		m.setStatus(snap.Success, false)
		return m, ClearStatusCmd()

	case EmailSentMsg:
		m.activeForm = nil
		m.view = ViewBorrows
		m.setStatus("Email sent", false)
		return m, ClearStatusCmd()

	case BorrowDeletedMsg, CategoryDeletedMsg, UserDeletedMsg:
		m.clampCursor()
		m.setStatus("Deleted", false)
		return m, ClearStatusCmd()

	case CategorySavedMsg:
		m.activeForm = nil
		m.view = ViewCategories
		m.setStatus("Category created", false)
		return m, ClearStatusCmd()

	case FinePaidMsg:
		m.setStatus("Fine marked as paid", false)
		return m, ClearStatusCmd()

	case DueCheckedMsg:
		m.setStatus(msg.Summary, false)
		return m, tea.Batch(LoadFinesCmd(m.borrows), ClearStatusCmd())

	case StatusMsg:
		m.setStatus(msg.Message, msg.IsError)
		return m, ClearStatusCmd()

	case ClearStatusMsg:
		m.status = ""
		return m, nil
	}

	return m, nil
}

// handleError applies the response-handling policy the view layer owns:
// auth failures drop the session, server faults get the full error
// screen, everything else stays an inline status message next to the
// screen that triggered it.
func (m *Model) handleError(e ErrMsg) (tea.Model, tea.Cmd) {
	var fieldErrs session.FieldErrors
	if errors.As(e.Err, &fieldErrs) && m.activeForm != nil {
		m.activeForm.setErrors(fieldErrs)
		return m, nil
	}

	var apiErr *api.Error
	if errors.As(e.Err, &apiErr) {
		switch {
		case apiErr.Status == 401 && m.view != ViewLogin:
			m.session.Logout()
			m.view = ViewLogin
			m.activeForm = loginForm()
			m.setStatus("Session expired — sign in again", true)
			return m, ClearStatusCmd()
		case apiErr.Status >= 500 || apiErr.Status == 0:
			m.returnView = m.view
			m.view = ViewError
			m.errStatus = apiErr.Status
			m.errMessage = apiErr.Message
			return m, nil
		}
	}

	m.logger.Warn("action failed", "context", e.Context, "error", e.Err)
	m.setStatus(e.Error(), true)
	return m, ClearStatusCmd()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Filter and search prompts swallow keys while active
	if m.filtering {
		return m.handleFilterKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.activeForm != nil {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Books):
		return m, m.navigate(ViewBooks)
	case key.Matches(msg, m.keys.Borrows):
		return m, m.navigate(ViewBorrows)
	case key.Matches(msg, m.keys.Categories):
		return m, m.navigate(ViewCategories)
	case key.Matches(msg, m.keys.Users):
		return m, m.navigate(ViewUsers)
	case key.Matches(msg, m.keys.Fines):
		return m, m.navigate(ViewFines)

	case key.Matches(msg, m.keys.Logout):
		m.session.Logout()
		m.view = ViewLogin
		m.activeForm = loginForm()
		m.setStatus("Signed out", false)
		return m, ClearStatusCmd()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.reloadCurrent()

	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Back):
		return m.handleBack()
	}

	return m.handleViewKey(msg)
}

// handleViewKey dispatches keys that only make sense on one screen
func (m *Model) handleViewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case ViewBooks:
		return m.handleBooksKey(msg)
	case ViewBookDetail:
		return m.handleBookDetailKey(msg)
	case ViewBorrows:
		return m.handleBorrowsKey(msg)
	case ViewCategories:
		return m.handleCategoriesKey(msg)
	case ViewUsers:
		return m.handleUsersKey(msg)
	case ViewFines:
		return m.handleFinesKey(msg)
	case ViewError, ViewDenied:
		if key.Matches(msg, m.keys.Enter) {
			return m.handleBack()
		}
	}
	return m, nil
}

func (m *Model) handleBooksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	staff := m.session.User() != nil && m.session.User().Role.IsStaff()

	switch {
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchPrompt.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Enter):
		if book, ok := m.selectedBook(); ok {
			m.returnView = ViewBooks
			m.view = ViewBookDetail
			return m, LoadBookDetailCmd(m.books, book.ID)
		}

	case key.Matches(msg, m.keys.Borrow):
		if book, ok := m.selectedBook(); ok {
			if book.Status != domain.StatusAvailable {
				m.setStatus("This book is not available for borrowing", true)
				return m, ClearStatusCmd()
			}
			m.targetBookID = book.ID
			m.returnView = ViewBooks
			m.view = ViewBorrowForm
			m.activeForm = newForm("Borrow \""+book.Title+"\"",
				formField{key: "days", label: "Loan length (days)", placeholder: "14", value: "14"},
			)
		}

	case key.Matches(msg, m.keys.New):
		if !staff {
			return m, nil
		}
		return m, m.openBookForm(0)

	case key.Matches(msg, m.keys.Edit):
		if !staff {
			return m, nil
		}
		if book, ok := m.selectedBook(); ok {
			return m, m.openBookForm(book.ID)
		}

	case key.Matches(msg, m.keys.Delete):
		if !staff {
			return m, nil
		}
		if book, ok := m.selectedBook(); ok {
			return m, DeleteBookCmd(m.books, book.ID)
		}
	}
	return m, nil
}

// openBookForm opens the create form, or the edit form prefilled from
// the collection when id is a known book.
func (m *Model) openBookForm(id int) tea.Cmd {
	var book domain.Book
	if id != 0 {
		existing, ok := m.books.Find(id)
		if !ok {
			return nil
		}
		book = existing
	}

	title := "Add book"
	if id != 0 {
		title = "Edit \"" + book.Title + "\""
	}

	m.editBookID = id
	m.returnView = ViewBooks
	m.view = ViewBookForm
	m.activeForm = newForm(title,
		formField{key: "title", label: "Title", value: book.Title},
		formField{key: "author", label: "Author", value: book.Author},
		formField{key: "category", label: "Category ID", value: intValue(book.CategoryID)},
		formField{key: "isbn", label: "ISBN", value: book.ISBN},
		formField{key: "status", label: "Status", placeholder: "available", value: string(book.Status)},
		formField{key: "description", label: "Description", value: book.Description},
	)
	return nil
}

func intValue(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func (m *Model) handleBookDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Back) {
		m.view = ViewBooks
	}
	return m, nil
}

func (m *Model) handleBorrowsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	staff := m.session.User() != nil && m.session.User().Role.IsStaff()

	switch {
	case key.Matches(msg, m.keys.Return):
		if rec, ok := m.selectedBorrow(); ok {
			if !rec.Active() {
				m.setStatus("Book already returned", true)
				return m, ClearStatusCmd()
			}
			return m, ReturnBookCmd(m.borrows, rec.ID)
		}

	case key.Matches(msg, m.keys.Email):
		if !staff {
			return m, nil
		}
		if rec, ok := m.selectedBorrow(); ok {
			m.targetRecordID = rec.ID
			m.returnView = ViewBorrows
			m.view = ViewEmailForm
			m.activeForm = newForm("Email borrower",
				formField{key: "subject", label: "Subject", placeholder: "Overdue notice"},
				formField{key: "message", label: "Message"},
			)
		}

	case key.Matches(msg, m.keys.Delete):
		if !staff {
			return m, nil
		}
		if rec, ok := m.selectedBorrow(); ok {
			return m, DeleteBorrowCmd(m.borrows, rec.ID)
		}
	}
	return m, nil
}

func (m *Model) handleCategoriesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.New):
		m.returnView = ViewCategories
		m.view = ViewCategoryForm
		m.activeForm = newForm("New category",
			formField{key: "name", label: "Name"},
			formField{key: "description", label: "Description"},
		)

	case key.Matches(msg, m.keys.Delete):
		if cat, ok := m.selectedCategory(); ok {
			return m, DeleteCategoryCmd(m.categories, cat.ID)
		}
	}
	return m, nil
}

func (m *Model) handleUsersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Delete) {
		if user, ok := m.selectedUser(); ok {
			if current := m.session.User(); current != nil && current.ID == user.ID {
				m.setStatus("You cannot delete your own account", true)
				return m, ClearStatusCmd()
			}
			return m, DeleteUserCmd(m.users, user.ID)
		}
	}
	return m, nil
}

func (m *Model) handleFinesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PayFine):
		if rec, ok := m.selectedBorrow(); ok {
			return m, MarkFinePaidCmd(m.borrows, rec.ID)
		}
	case key.Matches(msg, m.keys.CheckDue):
		return m, CheckDueCmd(m.borrows)
	}
	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filter.SetValue("")
		m.filter.Blur()
		return m, nil
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.cursor = 0
	return m, cmd
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchPrompt.SetValue("")
		m.searchPrompt.Blur()
		return m, nil
	case "enter":
		term := m.searchPrompt.Value()
		m.searching = false
		m.searchPrompt.SetValue("")
		m.searchPrompt.Blur()
		m.cursor = 0
		return m, SearchBooksCmd(m.books, term)
	}
	var cmd tea.Cmd
	m.searchPrompt, cmd = m.searchPrompt.Update(msg)
	return m, cmd
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.activeForm = nil
		if m.view == ViewLogin || m.view == ViewRegister {
			if m.view == ViewRegister {
				m.view = ViewLogin
				m.activeForm = loginForm()
			}
			return m, nil
		}
		m.view = m.returnView
		return m, nil
	case "enter":
		return m.submitForm()
	case "ctrl+r":
		if m.view == ViewLogin {
			m.view = ViewRegister
			m.activeForm = registerForm()
			return m, nil
		}
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, m.activeForm.Update(msg)
}

// submitForm dispatches the active form as the matching async action
func (m *Model) submitForm() (tea.Model, tea.Cmd) {
	f := m.activeForm

	switch m.view {
	case ViewLogin:
		username := f.value("username")
		password := f.rawValue("password")
		if errs := session.ValidateLogin(username, password); errs != nil {
			f.setErrors(errs)
			return m, nil
		}
		return m, LoginCmd(m.session, username, password)

	case ViewRegister:
		reg := api.Registration{
			Username: f.value("username"),
			Email:    f.value("email"),
			Password: f.rawValue("password"),
			Role:     domain.Role(f.value("role")),
		}
		if errs := session.ValidateRegistration(reg); errs != nil {
			f.setErrors(errs)
			return m, nil
		}
		return m, RegisterCmd(m.session, reg)

	case ViewBookForm:
		draft, errs := m.bookDraftFromForm(f)
		if errs != nil {
			f.setErrors(errs)
			return m, nil
		}
		if m.editBookID != 0 {
			return m, UpdateBookCmd(m.books, m.editBookID, draft)
		}
		return m, CreateBookCmd(m.books, draft)

	case ViewBorrowForm:
		days, err := strconv.Atoi(f.value("days"))
		if err != nil || days <= 0 {
			f.setErrors(map[string]string{"days": "Enter a positive number of days"})
			return m, nil
		}
		due := time.Now().AddDate(0, 0, days)
		return m, BorrowBookCmd(m.borrows, m.targetBookID, due)

	case ViewCategoryForm:
		name := f.value("name")
		if name == "" {
			f.setErrors(map[string]string{"name": "Name is required"})
			return m, nil
		}
		return m, CreateCategoryCmd(m.categories, name, f.value("description"))

	case ViewEmailForm:
		subject := f.value("subject")
		body := f.value("message")
		errs := map[string]string{}
		if subject == "" {
			errs["subject"] = "Subject is required"
		}
		if body == "" {
			errs["message"] = "Message is required"
		}
		if len(errs) > 0 {
			f.setErrors(errs)
			return m, nil
		}
		return m, SendEmailCmd(m.borrows, m.targetRecordID, subject, body)
	}

	return m, nil
}

func (m *Model) bookDraftFromForm(f *form) (api.BookDraft, map[string]string) {
	errs := map[string]string{}

	title := f.value("title")
	if title == "" {
		errs["title"] = "Title is required"
	}
	author := f.value("author")
	if author == "" {
		errs["author"] = "Author is required"
	}
	isbn := f.value("isbn")
	if isbn == "" {
		errs["isbn"] = "ISBN is required"
	}

	categoryID := 0
	if raw := f.value("category"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			errs["category"] = "Category must be a numeric id"
		} else {
			categoryID = id
		}
	} else {
		errs["category"] = "Category is required"
	}

	status := domain.BookStatus(f.value("status"))
	if status == "" {
		status = domain.StatusAvailable
	}
	switch status {
	case domain.StatusAvailable, domain.StatusBorrowed, domain.StatusReserved:
	default:
		errs["status"] = "Status must be available, borrowed or reserved"
	}

	if len(errs) > 0 {
		return api.BookDraft{}, errs
	}

	return api.BookDraft{
		Title:       title,
		Author:      author,
		CategoryID:  categoryID,
		ISBN:        isbn,
		Status:      status,
		Description: f.value("description"),
	}, nil
}

func (m *Model) handleBack() (tea.Model, tea.Cmd) {
	switch m.view {
	case ViewBookDetail, ViewDenied, ViewError:
		m.view = m.returnView
		return m, nil
	}
	return m, nil
}

func (m *Model) reloadCurrent() tea.Cmd {
	switch m.view {
	case ViewBooks:
		return LoadBooksCmd(m.books)
	case ViewBorrows:
		return LoadBorrowsCmd(m.borrows)
	case ViewCategories:
		return LoadCategoriesCmd(m.categories)
	case ViewUsers:
		return LoadUsersCmd(m.users)
	case ViewFines:
		return LoadFinesCmd(m.borrows)
	}
	return nil
}

func (m *Model) setStatus(message string, isErr bool) {
	m.status = message
	m.statusIsErr = isErr
}

func (m *Model) clampCursor() {
	if n := m.listLen(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) listLen() int {
	switch m.view {
	case ViewBooks:
		return len(m.visibleBooks())
	case ViewBorrows, ViewFines:
		return m.borrows.Len()
	case ViewCategories:
		return m.categories.Len()
	case ViewUsers:
		return m.users.Len()
	}
	return 0
}

func (m *Model) selectedBook() (domain.Book, bool) {
	books := m.visibleBooks()
	if m.cursor < 0 || m.cursor >= len(books) {
		return domain.Book{}, false
	}
	return books[m.cursor], true
}

func (m *Model) selectedBorrow() (domain.BorrowRecord, bool) {
	snap := m.borrows.Snapshot()
	if m.cursor < 0 || m.cursor >= len(snap.Items) {
		return domain.BorrowRecord{}, false
	}
	return snap.Items[m.cursor], true
}

func (m *Model) selectedCategory() (domain.Category, bool) {
	snap := m.categories.Snapshot()
	if m.cursor < 0 || m.cursor >= len(snap.Items) {
		return domain.Category{}, false
	}
	return snap.Items[m.cursor], true
}

func (m *Model) selectedUser() (domain.User, bool) {
	snap := m.users.Snapshot()
	if m.cursor < 0 || m.cursor >= len(snap.Items) {
		return domain.User{}, false
	}
	return snap.Items[m.cursor], true
}
