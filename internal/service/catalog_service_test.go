package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/mocks"
	"github.com/phrazzld/shelf-api/internal/service"
	"github.com/phrazzld/shelf-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBook_OwnerIsCaller(t *testing.T) {
	books := mocks.NewMockBookStore()
	svc := service.NewBookService(books, nil)
	caller := &domain.User{ID: uuid.New(), IsActive: true}

	b, err := svc.CreateBook(context.Background(), caller, service.BookInput{Title: "Kindred"})
	require.NoError(t, err)
	assert.Equal(t, caller.ID, b.OwnerID)
	assert.Equal(t, caller.ID, books.Books[b.ID].OwnerID)

	_, err = svc.CreateBook(context.Background(), nil, service.BookInput{Title: "Kindred"})
	assert.Error(t, err)
}

func TestUpdateBook(t *testing.T) {
	books := mocks.NewMockBookStore()
	svc := service.NewBookService(books, nil)
	owner := &domain.User{ID: uuid.New()}
	ctx := context.Background()

	b, err := svc.CreateBook(ctx, owner, service.BookInput{Title: "Draft"})
	require.NoError(t, err)

	title := "Final"
	got, err := svc.UpdateBook(ctx, b.ID, service.BookPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, owner.ID, got.OwnerID)

	blank := ""
	_, err = svc.UpdateBook(ctx, b.ID, service.BookPatch{Title: &blank})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateBook(ctx, uuid.New(), service.BookPatch{})
	assert.ErrorIs(t, err, store.ErrBookNotFound)

	require.NoError(t, svc.DeleteBook(ctx, b.ID))
	assert.ErrorIs(t, svc.DeleteBook(ctx, b.ID), store.ErrBookNotFound)
}

func TestAuthorService(t *testing.T) {
	authors := mocks.NewMockAuthorStore()
	svc := service.NewAuthorService(authors, nil)
	ctx := context.Background()

	_, err := svc.CreateAuthor(ctx, service.AuthorInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	a, err := svc.CreateAuthor(ctx, service.AuthorInput{Name: "N. K. Jemisin"})
	require.NoError(t, err)

	bio := "Hugo winner"
	got, err := svc.UpdateAuthor(ctx, a.ID, service.AuthorPatch{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "N. K. Jemisin", got.Name)
	assert.Equal(t, bio, got.Bio)

	list, err := svc.ListAuthors(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteAuthor(ctx, a.ID))
	_, err = svc.GetAuthor(ctx, a.ID)
	assert.ErrorIs(t, err, store.ErrAuthorNotFound)
}

func newBookAuthorFixture() (service.BookAuthorService, *mocks.MockBookStore, *mocks.MockAuthorStore, *mocks.MockBookAuthorStore) {
	books := mocks.NewMockBookStore()
	authors := mocks.NewMockAuthorStore()
	links := mocks.NewMockBookAuthorStore()
	return service.NewBookAuthorService(links, books, authors, nil), books, authors, links
}

func TestCreateBookAuthor_ReferencesMustExist(t *testing.T) {
	svc, books, authors, links := newBookAuthorFixture()
	ctx := context.Background()

	book, _ := domain.NewBook("Parable of the Sower", "", uuid.New())
	require.NoError(t, books.Create(ctx, book))
	author, _ := domain.NewAuthor("Octavia E. Butler", "", nil)
	require.NoError(t, authors.Create(ctx, author))

	missing := uuid.New()
	_, err := svc.CreateBookAuthor(ctx, service.BookAuthorInput{BookID: book.ID, AuthorID: missing})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{fmt.Sprintf("Invalid pk %q - object does not exist.", missing.String())}, ve.Fields["author"])
	assert.Empty(t, ve.Fields["book"])

	_, err = svc.CreateBookAuthor(ctx, service.BookAuthorInput{BookID: uuid.New(), AuthorID: uuid.New()})
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Fields["book"])
	assert.NotEmpty(t, ve.Fields["author"])
	assert.Empty(t, links.Links)

	first, err := svc.CreateBookAuthor(ctx, service.BookAuthorInput{BookID: book.ID, AuthorID: author.ID})
	require.NoError(t, err)
	second, err := svc.CreateBookAuthor(ctx, service.BookAuthorInput{BookID: book.ID, AuthorID: author.ID})
	require.NoError(t, err, "duplicate pairs are allowed")
	assert.NotEqual(t, first.ID, second.ID)

	list, err := svc.ListBookAuthors(ctx, store.BookAuthorFilter{AuthorID: &author.ID})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCreateBookAuthor_RaceWithDelete(t *testing.T) {
	svc, books, authors, links := newBookAuthorFixture()
	ctx := context.Background()

	book, _ := domain.NewBook("Dawn", "", uuid.New())
	require.NoError(t, books.Create(ctx, book))
	author, _ := domain.NewAuthor("Octavia E. Butler", "", nil)
	require.NoError(t, authors.Create(ctx, author))

	links.CreateFn = func(ctx context.Context, ba *domain.BookAuthor) error {
		return store.NewStoreError("book_author", "write", "author does not exist",
			fmt.Errorf("%w: author %s", store.ErrInvalidEntity, ba.AuthorID))
	}

	_, err := svc.CreateBookAuthor(ctx, service.BookAuthorInput{BookID: book.ID, AuthorID: author.ID})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Fields["author"])
}

func TestUpdateBookAuthor(t *testing.T) {
	svc, books, authors, _ := newBookAuthorFixture()
	ctx := context.Background()

	book, _ := domain.NewBook("Wild Seed", "", uuid.New())
	require.NoError(t, books.Create(ctx, book))
	a1, _ := domain.NewAuthor("A", "", nil)
	a2, _ := domain.NewAuthor("B", "", nil)
	require.NoError(t, authors.Create(ctx, a1))
	require.NoError(t, authors.Create(ctx, a2))

	link, err := svc.CreateBookAuthor(ctx, service.BookAuthorInput{BookID: book.ID, AuthorID: a1.ID})
	require.NoError(t, err)

	got, err := svc.UpdateBookAuthor(ctx, link.ID, service.BookAuthorPatch{AuthorID: &a2.ID})
	require.NoError(t, err)
	assert.Equal(t, a2.ID, got.AuthorID)
	assert.Equal(t, book.ID, got.BookID)

	missing := uuid.New()
	_, err = svc.UpdateBookAuthor(ctx, link.ID, service.BookAuthorPatch{BookID: &missing})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, svc.DeleteBookAuthor(ctx, link.ID))
	_, err = svc.GetBookAuthor(ctx, link.ID)
	assert.ErrorIs(t, err, store.ErrBookAuthorNotFound)
}
