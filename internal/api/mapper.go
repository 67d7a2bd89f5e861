package api

import (
	"time"

	"github.com/jtallard/biblio/internal/domain"
)

func mapUser(d userDTO) domain.User {
	return domain.User{
		ID:         d.ID,
		Username:   d.Username,
		Email:      d.Email,
		Role:       domain.Role(d.Role),
		DateJoined: parseTime(d.DateJoined),
	}
}

func mapUsers(dtos []userDTO) []domain.User {
	users := make([]domain.User, len(dtos))
	for i, d := range dtos {
		users[i] = mapUser(d)
	}
	return users
}

func mapBook(d bookDTO) domain.Book {
	return domain.Book{
		ID:          d.ID,
		Title:       d.Title,
		Author:      d.Author,
		CategoryID:  d.Category,
		ISBN:        d.ISBN,
		Status:      domain.BookStatus(d.Status),
		Description: d.Description,
	}
}

func mapBooks(dtos []bookDTO) []domain.Book {
	books := make([]domain.Book, len(dtos))
	for i, d := range dtos {
		books[i] = mapBook(d)
	}
	return books
}

func mapCategory(d categoryDTO) domain.Category {
	return domain.Category{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
	}
}

func mapCategories(dtos []categoryDTO) []domain.Category {
	cats := make([]domain.Category, len(dtos))
	for i, d := range dtos {
		cats[i] = mapCategory(d)
	}
	return cats
}

func mapBorrowRecord(d borrowRecordDTO) domain.BorrowRecord {
	rec := domain.BorrowRecord{
		ID:         d.ID,
		UserID:     d.User,
		Book:       mapBook(d.Book),
		BorrowDate: parseTime(d.BorrowDate),
		DueDate:    parseTime(d.DueDate),
		FineAmount: float64(d.FineAmount),
		FinePaid:   d.FinePaid,
	}
	if d.ReturnDate != nil && *d.ReturnDate != "" {
		t := parseTime(*d.ReturnDate)
		rec.ReturnDate = &t
	}
	if d.UserInfo != nil {
		rec.UserInfo = &domain.UserInfo{
			ID:       d.UserInfo.ID,
			Username: d.UserInfo.Username,
			Email:    d.UserInfo.Email,
		}
	}
	return rec
}

func mapBorrowRecords(dtos []borrowRecordDTO) []domain.BorrowRecord {
	records := make([]domain.BorrowRecord, len(dtos))
	for i, d := range dtos {
		records[i] = mapBorrowRecord(d)
	}
	return records
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
