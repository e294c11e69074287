package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/store"
)

// MockAuthorStore implements store.AuthorStore for testing
type MockAuthorStore struct {
	CreateFn  func(ctx context.Context, a *domain.Author) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Author, error)
	ListFn    func(ctx context.Context) ([]*domain.Author, error)
	UpdateFn  func(ctx context.Context, a *domain.Author) error
	DeleteFn  func(ctx context.Context, id uuid.UUID) error

	mu      sync.Mutex
	Authors map[uuid.UUID]*domain.Author
}

// NewMockAuthorStore creates an empty in-memory author store.
func NewMockAuthorStore() *MockAuthorStore {
	return &MockAuthorStore{Authors: make(map[uuid.UUID]*domain.Author)}
}

var _ store.AuthorStore = (*MockAuthorStore)(nil)

func (m *MockAuthorStore) Create(ctx context.Context, a *domain.Author) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.Authors[a.ID] = &cp
	return nil
}

func (m *MockAuthorStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Author, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Authors[id]
	if !ok {
		return nil, store.ErrAuthorNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MockAuthorStore) List(ctx context.Context) ([]*domain.Author, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Author, 0, len(m.Authors))
	for _, a := range m.Authors {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MockAuthorStore) Update(ctx context.Context, a *domain.Author) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Authors[a.ID]; !ok {
		return store.ErrAuthorNotFound
	}
	cp := *a
	m.Authors[a.ID] = &cp
	return nil
}

func (m *MockAuthorStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Authors[id]; !ok {
		return store.ErrAuthorNotFound
	}
	delete(m.Authors, id)
	return nil
}

// MockBookStore implements store.BookStore for testing
type MockBookStore struct {
	CreateFn  func(ctx context.Context, b *domain.Book) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	ListFn    func(ctx context.Context) ([]*domain.Book, error)
	UpdateFn  func(ctx context.Context, b *domain.Book) error
	DeleteFn  func(ctx context.Context, id uuid.UUID) error

	mu    sync.Mutex
	Books map[uuid.UUID]*domain.Book
}

// NewMockBookStore creates an empty in-memory book store.
func NewMockBookStore() *MockBookStore {
	return &MockBookStore{Books: make(map[uuid.UUID]*domain.Book)}
}

var _ store.BookStore = (*MockBookStore)(nil)

func (m *MockBookStore) Create(ctx context.Context, b *domain.Book) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.Books[b.ID] = &cp
	return nil
}

func (m *MockBookStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Books[id]
	if !ok {
		return nil, store.ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *MockBookStore) List(ctx context.Context) ([]*domain.Book, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Book, 0, len(m.Books))
	for _, b := range m.Books {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MockBookStore) Update(ctx context.Context, b *domain.Book) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, b)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Books[b.ID]
	if !ok {
		return store.ErrBookNotFound
	}
	cp := *b
	cp.OwnerID = existing.OwnerID
	m.Books[b.ID] = &cp
	return nil
}

func (m *MockBookStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Books[id]; !ok {
		return store.ErrBookNotFound
	}
	delete(m.Books, id)
	return nil
}

// MockBookAuthorStore implements store.BookAuthorStore for testing
type MockBookAuthorStore struct {
	CreateFn  func(ctx context.Context, ba *domain.BookAuthor) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.BookAuthor, error)
	ListFn    func(ctx context.Context, filter store.BookAuthorFilter) ([]*domain.BookAuthor, error)
	UpdateFn  func(ctx context.Context, ba *domain.BookAuthor) error
	DeleteFn  func(ctx context.Context, id uuid.UUID) error

	mu    sync.Mutex
	Links map[uuid.UUID]*domain.BookAuthor
}

// NewMockBookAuthorStore creates an empty in-memory association store.
func NewMockBookAuthorStore() *MockBookAuthorStore {
	return &MockBookAuthorStore{Links: make(map[uuid.UUID]*domain.BookAuthor)}
}

var _ store.BookAuthorStore = (*MockBookAuthorStore)(nil)

func (m *MockBookAuthorStore) Create(ctx context.Context, ba *domain.BookAuthor) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, ba)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *ba
	m.Links[ba.ID] = &cp
	return nil
}

func (m *MockBookAuthorStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.BookAuthor, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ba, ok := m.Links[id]
	if !ok {
		return nil, store.ErrBookAuthorNotFound
	}
	cp := *ba
	return &cp, nil
}

func (m *MockBookAuthorStore) List(
	ctx context.Context,
	filter store.BookAuthorFilter,
) ([]*domain.BookAuthor, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.BookAuthor, 0, len(m.Links))
	for _, ba := range m.Links {
		if filter.BookID != nil && ba.BookID != *filter.BookID {
			continue
		}
		if filter.AuthorID != nil && ba.AuthorID != *filter.AuthorID {
			continue
		}
		cp := *ba
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MockBookAuthorStore) Update(ctx context.Context, ba *domain.BookAuthor) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, ba)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Links[ba.ID]; !ok {
		return store.ErrBookAuthorNotFound
	}
	cp := *ba
	m.Links[ba.ID] = &cp
	return nil
}

func (m *MockBookAuthorStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Links[id]; !ok {
		return store.ErrBookAuthorNotFound
	}
	delete(m.Links, id)
	return nil
}
